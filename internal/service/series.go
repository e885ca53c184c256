package service

import (
	"time"

	"water_dashboard/internal/models"
)

// SeriesTimeLayout is the X-axis label format (local time of day).
const SeriesTimeLayout = "15:04:05"

// y-axis padding around the observed range
const (
	seriesPadRatio = 0.05
	seriesFlatPad  = 0.5
)

type seriesDef struct {
	key, title, unit, color string
	value                   func(models.SensorReading) *float64
}

var seriesDefs = []seriesDef{
	{"ph", "pH", "pH", "#3b82f6", func(r models.SensorReading) *float64 { return r.PH }},
	{"tds", "TDS", "ppm", "#22c55e", func(r models.SensorReading) *float64 { return r.TDS }},
	{"turbidity", "Turbidity", "NTU", "#f59e0b", func(r models.SensorReading) *float64 { return r.Turbidity }},
	{"temperature", "Temperature", "°C", "#ef4444", func(r models.SensorReading) *float64 { return r.Temperature }},
}

// BuildSeries derives pH, TDS, turbidity and temperature series from readings,
// oldest first. Every series has one point per reading, with a nil value where
// the reading lacked that metric.
func BuildSeries(readings []models.SensorReading, loc *time.Location) []models.Series {
	if loc == nil {
		loc = time.Local
	}
	labels := make([]string, len(readings))
	for i, r := range readings {
		labels[i] = r.Timestamp.In(loc).Format(SeriesTimeLayout)
	}

	out := make([]models.Series, 0, len(seriesDefs))
	for _, d := range seriesDefs {
		s := models.Series{
			Key:    d.key,
			Title:  d.title,
			Unit:   d.unit,
			Color:  d.color,
			Points: make([]models.SeriesPoint, len(readings)),
		}
		var lo, hi float64
		seen := false
		for i, r := range readings {
			v := d.value(r)
			s.Points[i] = models.SeriesPoint{Time: labels[i], Value: v}
			if v == nil {
				continue
			}
			if !seen || *v < lo {
				lo = *v
			}
			if !seen || *v > hi {
				hi = *v
			}
			seen = true
		}
		if seen {
			s.YMin, s.YMax = yBounds(lo, hi)
		}
		out = append(out, s)
	}
	return out
}

func yBounds(lo, hi float64) (*float64, *float64) {
	pad := (hi - lo) * seriesPadRatio
	if pad == 0 {
		pad = seriesFlatPad
	}
	return models.Float(lo - pad), models.Float(hi + pad)
}
