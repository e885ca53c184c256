package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"water_dashboard/internal/models"
)

// sensorField binds one reading field to its aggregate key and its dedicated
// single-metric endpoint.
type sensorField struct {
	name      string // metrics/log label
	aggKey    string // key in /api/sensors
	path      string // fallback endpoint
	singleKey string // key in the fallback response
	get       func(*models.SensorReading) *float64
	set       func(*models.SensorReading, *float64)
}

var sensorFields = []sensorField{
	{
		name: "ph", aggKey: "ph", path: PathPH, singleKey: "ph",
		get: func(r *models.SensorReading) *float64 { return r.PH },
		set: func(r *models.SensorReading, v *float64) { r.PH = v },
	},
	{
		name: "tds", aggKey: "tds", path: PathTDS, singleKey: "tds",
		get: func(r *models.SensorReading) *float64 { return r.TDS },
		set: func(r *models.SensorReading, v *float64) { r.TDS = v },
	},
	{
		name: "turbidity", aggKey: "turb", path: PathTurbidity, singleKey: "turbidity",
		get: func(r *models.SensorReading) *float64 { return r.Turbidity },
		set: func(r *models.SensorReading, v *float64) { r.Turbidity = v },
	},
	{
		name: "temperature", aggKey: "temp", path: PathTemperature, singleKey: "temperature",
		get: func(r *models.SensorReading) *float64 { return r.Temperature },
		set: func(r *models.SensorReading, v *float64) { r.Temperature = v },
	},
}

var jsonNull = []byte("null")

// number extracts a JSON number. Absent, null and non-numeric values yield nil.
func number(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// FetchSensorReadings fetches the aggregated readings. Every field the
// aggregate reports as absent, null or non-numeric is fetched once from its
// single-metric endpoint; those fallback failures are swallowed and leave the
// field nil. The returned reading carries no timestamp.
func (c *Client) FetchSensorReadings(ctx context.Context) (models.SensorReading, error) {
	var agg map[string]json.RawMessage
	if err := c.doJSON(ctx, "fetch sensors", http.MethodGet, PathSensors, nil, &agg); err != nil {
		return models.SensorReading{}, err
	}

	var r models.SensorReading
	var missing []sensorField
	for _, f := range sensorFields {
		v := number(agg[f.aggKey])
		f.set(&r, v)
		if v == nil {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return r, nil
	}

	// all fallbacks resolve before the merged reading is returned
	values := make([]*float64, len(missing))
	var wg sync.WaitGroup
	for i, f := range missing {
		wg.Add(1)
		go func(i int, f sensorField) {
			defer wg.Done()
			v, err := c.fetchSingle(ctx, f)
			c.metrics.Fallback(f.name, err)
			if err != nil {
				c.log.Debugw("sensor_fallback_failed", "field", f.name, "err", err)
				return
			}
			values[i] = v
		}(i, f)
	}
	wg.Wait()

	for i, f := range missing {
		if values[i] != nil {
			f.set(&r, values[i])
		}
	}
	return r, nil
}

func (c *Client) fetchSingle(ctx context.Context, f sensorField) (*float64, error) {
	var body map[string]json.RawMessage
	if err := c.doJSON(ctx, "fetch "+f.name, http.MethodGet, f.path, nil, &body); err != nil {
		return nil, err
	}
	v := number(body[f.singleKey])
	if v == nil {
		return nil, &NetworkError{
			Op:     "fetch " + f.name,
			Method: http.MethodGet,
			Path:   f.path,
			Err:    fmt.Errorf("%w: %q is not a number", ErrMalformedResponse, f.singleKey),
		}
	}
	return v, nil
}
