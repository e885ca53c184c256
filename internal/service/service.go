package service

import (
	"context"
	"time"

	"water_dashboard/internal/client"
	"water_dashboard/internal/history"
	"water_dashboard/internal/logger"
	"water_dashboard/internal/metrics"
	"water_dashboard/internal/models"
	"water_dashboard/internal/publish"
	"water_dashboard/internal/repository"
)

// Controls exposes the pump and valve panel: one state fetch on mount,
// then toggles and explicit sets reconciled with the server's answer.
type Controls interface {
	Mount(ctx context.Context) error
	Unmount()
	Toggle(ctx context.Context, a models.Actuator) (models.ControlsView, error)
	Set(ctx context.Context, a models.Actuator, on bool) (models.ControlsView, error)
	View() models.ControlsView
}

// Charts exposes the realtime polling loop and the history behind it.
type Charts interface {
	Start(ctx context.Context) error
	Stop()
	Done() <-chan struct{}
	Interval() time.Duration
	Readings() []models.SensorReading
	Latest() (models.SensorReading, bool)
	Capacity() int
	Series() []models.Series
}

// EventLog exposes the control audit log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ControlEvent, error)
}

// Service aggregates the dashboard views.
type Service struct {
	Controls
	Charts
	EventLog
}

// Options tunes the services built by NewService. Zero values fall back to
// the dashboard defaults.
type Options struct {
	Interval     time.Duration
	HistoryLimit int
	Publishers   []publish.Publisher
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
}

// NewService wires the API client and the repository layer into the views.
func NewService(api *client.Client, repos *repository.Repository, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Controls: NewControlsService(api, repos.EventRepo, opts.Metrics, log),
		Charts: NewChartsService(api, history.New(orDefault(opts.HistoryLimit, DefaultHistoryLimit)), ChartsOptions{
			Interval:   opts.Interval,
			Publishers: opts.Publishers,
			Metrics:    opts.Metrics,
			Logger:     log,
		}),
		EventLog: NewEventLogService(repos.EventRepo),
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
