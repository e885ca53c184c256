package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"water_dashboard/internal/logger"
	"water_dashboard/internal/metrics"
	"water_dashboard/internal/models"
	"water_dashboard/internal/repository"
)

var (
	ErrToggleInFlight  = errors.New("a request for this actuator is already in flight")
	ErrUnknownActuator = errors.New("unknown actuator: must be pump or valve")
	ErrNotMounted      = errors.New("controls view is not mounted")
)

// ActuatorAPI is the part of the sensor API client the controls need.
type ActuatorAPI interface {
	FetchActuatorState(ctx context.Context) (models.ActuatorState, error)
	SetActuator(ctx context.Context, a models.Actuator, on bool) (bool, error)
}

// ControlsService holds the server-confirmed actuator state. State changes
// only in response to server answers; failed requests leave it untouched.
type ControlsService struct {
	api     ActuatorAPI
	events  repository.EventRepo
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time

	mu      sync.Mutex
	state   models.ActuatorState
	loading map[models.Actuator]bool
	mounted bool
	// gen changes on every mount/unmount so late answers can be recognized
	gen uint64
}

// NewControlsService returns an unmounted view with both actuators OFF/CLOSED.
// events may be nil, in which case nothing is audited.
func NewControlsService(api ActuatorAPI, events repository.EventRepo, m *metrics.Metrics, log *logger.Logger) *ControlsService {
	if log == nil {
		log = logger.Nop()
	}
	return &ControlsService{
		api:     api,
		events:  events,
		metrics: m,
		log:     log,
		now:     time.Now,
		loading: make(map[models.Actuator]bool, 2),
	}
}

// Mount fetches the actuator state once. On failure the defaults stay and the
// error is returned for logging; there is no retry.
func (s *ControlsService) Mount(ctx context.Context) error {
	s.mu.Lock()
	s.mounted = true
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	st, err := s.api.FetchActuatorState(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("fetch actuator state: %w", err)
	}
	if !s.current(gen) {
		return nil
	}
	s.state = st
	return nil
}

// Unmount detaches the view. Answers to requests started before it are dropped.
func (s *ControlsService) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
	s.gen++
	for a := range s.loading {
		delete(s.loading, a)
	}
}

// Toggle requests the inverse of the actuator's displayed state.
func (s *ControlsService) Toggle(ctx context.Context, a models.Actuator) (models.ControlsView, error) {
	return s.request(ctx, a, func(st models.ActuatorState) bool { return !position(st, a) })
}

// Set requests an explicit state for the actuator.
func (s *ControlsService) Set(ctx context.Context, a models.Actuator, on bool) (models.ControlsView, error) {
	return s.request(ctx, a, func(models.ActuatorState) bool { return on })
}

// request runs one reconciled actuator request. A transport or server failure
// is not an error for the caller: loading clears and the state stays.
func (s *ControlsService) request(ctx context.Context, a models.Actuator, desired func(models.ActuatorState) bool) (models.ControlsView, error) {
	if !a.Valid() {
		return models.ControlsView{}, ErrUnknownActuator
	}

	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return models.ControlsView{}, ErrNotMounted
	}
	if s.loading[a] {
		v := s.view()
		s.mu.Unlock()
		return v, ErrToggleInFlight
	}
	want := desired(s.state)
	s.loading[a] = true
	gen := s.gen
	s.mu.Unlock()

	confirmed, err := s.api.SetActuator(ctx, a, want)
	s.metrics.Control(string(a), err)

	s.mu.Lock()
	if s.current(gen) {
		delete(s.loading, a)
		if err == nil {
			setPosition(&s.state, a, confirmed)
		}
	}
	v := s.view()
	s.mu.Unlock()

	if err != nil {
		s.log.Warnw("control_request_failed", "actuator", a, "requested", want, "err", err)
	}
	s.audit(ctx, a, want, confirmed, err)
	return v, nil
}

// View returns the panel as currently displayed.
func (s *ControlsService) View() models.ControlsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *ControlsService) view() models.ControlsView {
	return models.ControlsView{
		Pump:         s.state.Pump,
		Valve:        s.state.Valve,
		PumpLabel:    models.Pump.Label(s.state.Pump),
		ValveLabel:   models.Valve.Label(s.state.Valve),
		PumpLoading:  s.loading[models.Pump],
		ValveLoading: s.loading[models.Valve],
	}
}

// current reports whether gen is still the live mount. Caller holds mu.
func (s *ControlsService) current(gen uint64) bool {
	return s.mounted && s.gen == gen
}

// audit appends the control event. Failures are logged only.
func (s *ControlsService) audit(ctx context.Context, a models.Actuator, requested, confirmed bool, reqErr error) {
	if s.events == nil {
		return
	}

	ev := models.ControlEvent{
		EventID:    uuid.NewString(),
		OccurredAt: s.now().UTC(),
	}
	meta := map[string]any{"actuator": string(a), "requested": requested}
	if reqErr != nil {
		ev.Type = models.EventControlFailed
		ev.Description = fmt.Sprintf("%s request to %s failed", a, a.Label(requested))
		meta["error"] = reqErr.Error()
	} else {
		ev.Type = models.EventControl
		ev.Description = fmt.Sprintf("%s set to %s", a, a.Label(confirmed))
		meta["confirmed"] = confirmed
	}
	ev.Metadata = meta

	// the request's context may already be done once the answer is in
	if err := s.events.Append(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Errorw("control_audit_failed", "actuator", a, "err", err)
	}
}

func position(st models.ActuatorState, a models.Actuator) bool {
	if a == models.Valve {
		return st.Valve
	}
	return st.Pump
}

func setPosition(st *models.ActuatorState, a models.Actuator, on bool) {
	if a == models.Valve {
		st.Valve = on
		return
	}
	st.Pump = on
}
