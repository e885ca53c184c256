package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"water_dashboard/internal/models"
)

var errAPIDown = errors.New("api down")

// fakeEventRepo records appended events and serves List from a fixed slice.
type fakeEventRepo struct {
	mu        sync.Mutex
	appended  []models.ControlEvent
	appendErr error

	gotFrom   time.Time
	gotTo     time.Time
	gotType   string
	events    []models.ControlEvent
	listErr   error
	listCalls int
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.ControlEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.ControlEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.listErr
}

func (f *fakeEventRepo) snapshot() []models.ControlEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ControlEvent(nil), f.appended...)
}

type setCall struct {
	a  models.Actuator
	on bool
}

// fakeActuators answers control requests. When confirm is set it decides the
// confirmed value; otherwise the request is echoed. gate, when non-nil, blocks
// SetActuator until it is closed.
type fakeActuators struct {
	mu       sync.Mutex
	state    models.ActuatorState
	stateErr error
	setErr   error
	confirm  func(a models.Actuator, on bool) bool
	calls    []setCall
	gate     chan struct{}
	entered  chan models.Actuator
}

func (f *fakeActuators) FetchActuatorState(ctx context.Context) (models.ActuatorState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.stateErr
}

func (f *fakeActuators) SetActuator(ctx context.Context, a models.Actuator, on bool) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, setCall{a, on})
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- a
	}
	if gate != nil && a == models.Pump {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return false, f.setErr
	}
	if f.confirm != nil {
		return f.confirm(a, on), nil
	}
	return on, nil
}

func (f *fakeActuators) callsSnapshot() []setCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]setCall(nil), f.calls...)
}

// scriptedSensors returns the scripted results in order, then repeats the last.
type scriptedSensors struct {
	mu      sync.Mutex
	results []sensorResult
	calls   int
	called  chan struct{}
}

type sensorResult struct {
	r   models.SensorReading
	err error
}

func (f *scriptedSensors) FetchSensorReadings(ctx context.Context) (models.SensorReading, error) {
	f.mu.Lock()
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	res := f.results[i]
	called := f.called
	f.mu.Unlock()

	if called != nil {
		select {
		case called <- struct{}{}:
		default:
		}
	}
	return res.r, res.err
}

// blockingSensors enters, then waits for release regardless of ctx, like a
// response that arrives after the view went away.
type blockingSensors struct {
	entered chan struct{}
	release chan struct{}
}

func (f *blockingSensors) FetchSensorReadings(ctx context.Context) (models.SensorReading, error) {
	f.entered <- struct{}{}
	<-f.release
	return models.SensorReading{PH: models.Float(7)}, nil
}

// fakePublisher records readings.
type fakePublisher struct {
	mu  sync.Mutex
	got []models.SensorReading
	err error
}

func (p *fakePublisher) Name() string { return "fake" }

func (p *fakePublisher) Publish(ctx context.Context, r models.SensorReading) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, r)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

// testCtx returns a context canceled at test cleanup.
func testCtx(t interface{ Cleanup(func()) }) context.Context {
	c, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return c
}
