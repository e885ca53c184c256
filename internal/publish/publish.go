// Package publish forwards each reading the dashboard records to external
// sinks (MQTT, Kafka).
package publish

import (
	"context"
	"encoding/json"
	"errors"

	"water_dashboard/internal/models"
)

// Publisher is a sink for recorded readings.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, r models.SensorReading) error
	Close() error
}

// encode renders a reading as the JSON payload shared by all sinks.
func encode(r models.SensorReading) ([]byte, error) {
	return json.Marshal(r)
}

// CloseAll closes every publisher and joins their errors.
func CloseAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
