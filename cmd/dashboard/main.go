package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	_ "water_dashboard/docs"
	"water_dashboard/internal/client"
	"water_dashboard/internal/config"
	"water_dashboard/internal/handlers"
	"water_dashboard/internal/logger"
	"water_dashboard/internal/metrics"
	"water_dashboard/internal/publish"
	"water_dashboard/internal/repository"
	"water_dashboard/internal/repository/db"
	"water_dashboard/internal/server"
	"water_dashboard/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title        Water Quality Dashboard API
// @version      1.0
// @description  Realtime pH, TDS, turbidity and temperature charts with pump and valve controls.
// @BasePath     /
func main() {
	// load config.yml
	cfg, err := config.Load(os.Getenv("DASHBOARD_CONFIG_DIR"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	m := metrics.New(prometheus.NewRegistry())
	api := client.New(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout},
		client.WithMetrics(m), client.WithLogger(log))
	pubs := openPublishers(cfg, log)
	defer func() {
		if err := publish.CloseAll(pubs); err != nil {
			log.Warnw("publisher_close_failed", "err", err)
		}
	}()

	repos := repository.NewRepository(conn)
	services := service.NewService(api, repos, service.Options{
		Interval:     cfg.Poll.Interval,
		HistoryLimit: cfg.Poll.HistoryLimit,
		Publishers:   pubs,
		Metrics:      m,
		Logger:       log,
	})
	apiHandler := handlers.NewHandler(services, m, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mountViews(ctx, services, log)
	log.Infow("dashboard_started", "api", api.BaseURL(), "interval", cfg.Poll.Interval, "history", cfg.Poll.HistoryLimit)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, services, srv, log)
}

// openDB initializes the SQLite audit log using configuration.
func openDB(cfg config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening control audit log", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

// openPublishers connects the configured reading sinks. A sink that cannot
// connect is logged and skipped.
func openPublishers(cfg config.Config, log *logger.Logger) []publish.Publisher {
	var pubs []publish.Publisher
	if cfg.MQTT.Broker != "" {
		p, err := publish.DialMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, cfg.MQTT.QoS)
		if err != nil {
			log.Warnw("mqtt_publisher_disabled", "broker", cfg.MQTT.Broker, "err", err)
		} else {
			pubs = append(pubs, p)
		}
	}
	if len(cfg.Kafka.Brokers) > 0 {
		pubs = append(pubs, publish.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	}
	return pubs
}

// mountViews fetches the actuator state once and starts the chart poller.
func mountViews(ctx context.Context, services *service.Service, log *logger.Logger) {
	if err := services.Controls.Mount(ctx); err != nil {
		log.Warnw("controls_initial_fetch_failed", "err", err)
	}
	if err := services.Charts.Start(ctx); err != nil {
		log.Fatalw("failed to start charts poller", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, services *service.Service, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	services.Charts.Stop()
	services.Controls.Unmount()
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	select {
	case <-services.Charts.Done():
	case <-ctx.Done():
		log.Warnw("charts poller did not stop in time")
	}
}
