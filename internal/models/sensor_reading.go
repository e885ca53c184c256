package models

import "time"

// SensorReading is one polled snapshot of the water-quality sensors.
// A nil field means the value was unavailable for that poll.
type SensorReading struct {
	Timestamp   time.Time `json:"timestamp"`   // client capture time
	PH          *float64  `json:"ph"`          // pH
	TDS         *float64  `json:"tds"`         // ppm
	Turbidity   *float64  `json:"turbidity"`   // NTU
	Temperature *float64  `json:"temperature"` // °C
}

// Float returns a pointer to v. Handy for building readings in code and tests.
func Float(v float64) *float64 { return &v }

// Complete reports whether all four sensor values are present.
func (r SensorReading) Complete() bool {
	return r.PH != nil && r.TDS != nil && r.Turbidity != nil && r.Temperature != nil
}
