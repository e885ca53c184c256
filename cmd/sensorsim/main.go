// Command sensorsim serves a simulated sensor API for local development.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"water_dashboard/internal/calibration"
	"water_dashboard/internal/config"
	"water_dashboard/internal/logger"
	"water_dashboard/internal/server"
	"water_dashboard/internal/simulator"
)

func main() {
	cfg, err := config.Load(os.Getenv("DASHBOARD_CONFIG_DIR"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	cal, err := calibration.Load(cfg.Sim.CalibrationFile)
	if err != nil {
		log.Fatalw("failed to load calibration", "path", cfg.Sim.CalibrationFile, "err", err)
	}

	sim := simulator.New(simulator.Config{
		NullProbability: cfg.Sim.NullProbability,
		Calibration:     cal,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sim.Run(ctx, cfg.Sim.Tick)

	srv := &server.Server{}
	go func() {
		if err := srv.Run(cfg.Sim.Port, sim.Router()); err != nil {
			log.Fatalw("error starting simulator", "err", err)
		}
	}()
	log.Infow("sensor_simulator_started", "port", cfg.Sim.Port, "tick", cfg.Sim.Tick,
		"null_probability", cfg.Sim.NullProbability, "calibrated", len(cal))

	<-ctx.Done()
	log.Infow("shutting down simulator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("simulator forced to shutdown", "err", err)
	}
}
