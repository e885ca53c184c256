// Package history holds the bounded, chronologically ordered reading buffer
// behind the realtime charts.
package history

import (
	"sync"

	"water_dashboard/internal/models"
)

// ReadingHistory is a fixed-capacity FIFO of sensor readings. When full, a
// push evicts the oldest reading. Safe for concurrent use.
type ReadingHistory struct {
	mu       sync.RWMutex
	buf      []models.SensorReading
	head     int // index of the oldest reading
	size     int
	capacity int
}

// New creates a history holding at most capacity readings. A non-positive
// capacity is treated as 1.
func New(capacity int) *ReadingHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &ReadingHistory{
		buf:      make([]models.SensorReading, capacity),
		capacity: capacity,
	}
}

// Push appends r, evicting the oldest reading if the buffer is full.
// It reports whether a reading was evicted.
func (h *ReadingHistory) Push(r models.SensorReading) (evicted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size < h.capacity {
		h.buf[(h.head+h.size)%h.capacity] = r
		h.size++
		return false
	}
	h.buf[h.head] = r
	h.head = (h.head + 1) % h.capacity
	return true
}

// Snapshot returns the readings oldest first. The slice is a copy.
func (h *ReadingHistory) Snapshot() []models.SensorReading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.SensorReading, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.head+i)%h.capacity]
	}
	return out
}

// Latest returns the newest reading, if any.
func (h *ReadingHistory) Latest() (models.SensorReading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.size == 0 {
		return models.SensorReading{}, false
	}
	return h.buf[(h.head+h.size-1)%h.capacity], true
}

// Len returns the number of readings held.
func (h *ReadingHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// Cap returns the capacity.
func (h *ReadingHistory) Cap() int {
	return h.capacity
}
