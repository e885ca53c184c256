package handlers

import (
	"context"
	"sync"
	"time"

	"water_dashboard/internal/models"
	"water_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockControls struct {
	mu      sync.Mutex
	view    models.ControlsView
	err     error
	lastA   models.Actuator
	lastOn  *bool
	toggles int
	sets    int
	mounted bool
}

func (m *mockControls) Mount(ctx context.Context) error {
	m.mounted = true
	return nil
}
func (m *mockControls) Unmount() { m.mounted = false }
func (m *mockControls) Toggle(ctx context.Context, a models.Actuator) (models.ControlsView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles++
	m.lastA = a
	return m.view, m.err
}
func (m *mockControls) Set(ctx context.Context, a models.Actuator, on bool) (models.ControlsView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.lastA = a
	m.lastOn = &on
	return m.view, m.err
}
func (m *mockControls) View() models.ControlsView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

type mockCharts struct {
	mu       sync.Mutex
	readings []models.SensorReading
	series   []models.Series
	interval time.Duration
	capacity int
}

func (m *mockCharts) Start(ctx context.Context) error { return nil }
func (m *mockCharts) Stop()                           {}
func (m *mockCharts) Done() <-chan struct{}           { return nil }
func (m *mockCharts) Interval() time.Duration         { return m.interval }
func (m *mockCharts) Capacity() int                   { return m.capacity }
func (m *mockCharts) Series() []models.Series         { return m.series }
func (m *mockCharts) Readings() []models.SensorReading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SensorReading(nil), m.readings...)
}
func (m *mockCharts) Latest() (models.SensorReading, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.readings) == 0 {
		return models.SensorReading{}, false
	}
	return m.readings[len(m.readings)-1], true
}
func (m *mockCharts) push(rs ...models.SensorReading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, rs...)
}

type mockEventLog struct {
	resp     []models.ControlEvent
	err      error
	calls    int
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ControlEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// newTestServices returns a service aggregate backed by fresh mocks.
func newTestServices() (*service.Service, *mockControls, *mockCharts, *mockEventLog) {
	ctl := &mockControls{view: models.ControlsView{PumpLabel: "OFF", ValveLabel: "CLOSED"}}
	ch := &mockCharts{interval: 2 * time.Second, capacity: 300}
	ev := &mockEventLog{}
	return &service.Service{Controls: ctl, Charts: ch, EventLog: ev}, ctl, ch, ev
}
