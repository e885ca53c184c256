package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"water_dashboard/internal/models"
)

type controlStateResponse struct {
	Pump  *bool `json:"pump"`
	Valve *bool `json:"valve"`
}

type controlRequest struct {
	On bool `json:"on"`
}

// FetchActuatorState returns the actuator positions as reported by the API.
func (c *Client) FetchActuatorState(ctx context.Context) (models.ActuatorState, error) {
	var res controlStateResponse
	if err := c.doJSON(ctx, "fetch control state", http.MethodGet, PathControlState, nil, &res); err != nil {
		return models.ActuatorState{}, err
	}
	if res.Pump == nil || res.Valve == nil {
		return models.ActuatorState{}, &NetworkError{
			Op:     "fetch control state",
			Method: http.MethodGet,
			Path:   PathControlState,
			Err:    fmt.Errorf("%w: pump and valve are required", ErrMalformedResponse),
		}
	}
	return models.ActuatorState{Pump: *res.Pump, Valve: *res.Valve}, nil
}

// SetPump requests the pump on or off and returns the confirmed state.
func (c *Client) SetPump(ctx context.Context, on bool) (bool, error) {
	return c.SetActuator(ctx, models.Pump, on)
}

// SetValve requests the valve open or closed and returns the confirmed state.
func (c *Client) SetValve(ctx context.Context, on bool) (bool, error) {
	return c.SetActuator(ctx, models.Valve, on)
}

// SetActuator posts the desired state and returns the state the server
// confirms, which may differ from what was requested.
func (c *Client) SetActuator(ctx context.Context, a models.Actuator, on bool) (bool, error) {
	var path string
	switch a {
	case models.Pump:
		path = PathControlPump
	case models.Valve:
		path = PathControlValve
	default:
		return false, fmt.Errorf("unknown actuator %q", a)
	}

	op := "set " + string(a)
	var res map[string]json.RawMessage
	if err := c.doJSON(ctx, op, http.MethodPost, path, controlRequest{On: on}, &res); err != nil {
		return false, err
	}
	var confirmed bool
	if raw, ok := res[string(a)]; !ok || json.Unmarshal(raw, &confirmed) != nil || string(raw) == "null" {
		return false, &NetworkError{
			Op:     op,
			Method: http.MethodPost,
			Path:   path,
			Err:    fmt.Errorf("%w: %q missing or not a boolean", ErrMalformedResponse, a),
		}
	}
	return confirmed, nil
}
