package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"water_dashboard/internal/history"
	"water_dashboard/internal/logger"
	"water_dashboard/internal/metrics"
	"water_dashboard/internal/models"
	"water_dashboard/internal/publish"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultHistoryLimit = 300

	publishTimeout = 3 * time.Second
)

var ErrAlreadyStarted = errors.New("charts poller already started")

// SensorAPI is the part of the sensor API client the charts need.
type SensorAPI interface {
	FetchSensorReadings(ctx context.Context) (models.SensorReading, error)
}

// ChartsOptions tunes a ChartsService.
type ChartsOptions struct {
	Interval   time.Duration
	Publishers []publish.Publisher
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
	// Location used for time-of-day labels; defaults to time.Local.
	Location *time.Location
}

// ChartsService polls the sensor API into a bounded history and derives the
// four chart series from it.
type ChartsService struct {
	api      SensorAPI
	hist     *history.ReadingHistory
	interval time.Duration
	pubs     []publish.Publisher
	metrics  *metrics.Metrics
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopped bool
	gen     uint64
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewChartsService(api SensorAPI, hist *history.ReadingHistory, opts ChartsOptions) *ChartsService {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	done := make(chan struct{})
	close(done)
	return &ChartsService{
		api:      api,
		hist:     hist,
		interval: opts.Interval,
		pubs:     opts.Publishers,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		loc:      opts.Location,
		now:      time.Now,
		done:     done,
	}
}

// Start fetches once immediately, then every interval until Stop or until ctx
// is canceled. Ticks never overlap: a slow fetch delays the next one.
func (s *ChartsService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.stopped = false
	s.gen++
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.gen, s.done)
	return nil
}

// Stop cancels polling. A fetch still in flight is discarded when it returns.
// Stop does not wait; use Done for that.
func (s *ChartsService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.stopped = true
	s.running = false
	s.cancel()
}

// Done is closed once the polling goroutine has exited.
func (s *ChartsService) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *ChartsService) Interval() time.Duration { return s.interval }

func (s *ChartsService) Readings() []models.SensorReading { return s.hist.Snapshot() }

// Latest returns the newest reading, if any.
func (s *ChartsService) Latest() (models.SensorReading, bool) { return s.hist.Latest() }

func (s *ChartsService) Capacity() int { return s.hist.Cap() }

// Series derives the four chart series from the current history.
func (s *ChartsService) Series() []models.Series {
	return BuildSeries(s.hist.Snapshot(), s.loc)
}

func (s *ChartsService) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	s.poll(ctx, gen)

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.poll(ctx, gen)
		}
	}
}

// poll runs one tick. Failed fetches are ignored; the next tick retries.
func (s *ChartsService) poll(ctx context.Context, gen uint64) {
	r, err := s.api.FetchSensorReadings(ctx)
	if err != nil {
		if s.live(gen) {
			s.metrics.Poll(metrics.OutcomeError)
			s.log.Debugw("sensor_poll_failed", "err", err)
		} else {
			s.metrics.Poll(metrics.OutcomeStale)
		}
		return
	}
	r.Timestamp = s.now()

	s.mu.Lock()
	if s.stopped || s.gen != gen {
		s.mu.Unlock()
		s.metrics.Poll(metrics.OutcomeStale)
		return
	}
	s.hist.Push(r)
	n := s.hist.Len()
	s.mu.Unlock()

	if !r.Complete() {
		s.log.Debugw("sensor_reading_partial", "ph", r.PH != nil, "tds", r.TDS != nil,
			"turbidity", r.Turbidity != nil, "temperature", r.Temperature != nil)
	}
	s.metrics.Poll(metrics.OutcomeOK)
	s.metrics.HistorySize(n)
	s.publish(ctx, r)
}

func (s *ChartsService) live(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && s.gen == gen
}

// publish hands r to every configured sink. Failures are logged only.
func (s *ChartsService) publish(ctx context.Context, r models.SensorReading) {
	for _, p := range s.pubs {
		pctx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := p.Publish(pctx, r)
		cancel()
		s.metrics.Publish(p.Name(), err)
		if err != nil {
			s.log.Warnw("reading_publish_failed", "sink", p.Name(), "err", err)
		}
	}
}
