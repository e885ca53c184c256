package models

// Actuator names a binary control exposed by the sensor API.
type Actuator string

const (
	Pump  Actuator = "pump"
	Valve Actuator = "valve"
)

// Valid reports whether a is a known actuator.
func (a Actuator) Valid() bool {
	return a == Pump || a == Valve
}

// Label renders a state the way the dashboard shows it: ON/OFF for the pump,
// OPEN/CLOSED for the valve.
func (a Actuator) Label(on bool) string {
	switch a {
	case Valve:
		if on {
			return "OPEN"
		}
		return "CLOSED"
	default:
		if on {
			return "ON"
		}
		return "OFF"
	}
}

// ActuatorState mirrors the server-confirmed actuator positions.
type ActuatorState struct {
	Pump  bool `json:"pump"`
	Valve bool `json:"valve"`
}

// ControlsView is what the controls panel renders.
type ControlsView struct {
	Pump         bool   `json:"pump"`
	Valve        bool   `json:"valve"`
	PumpLabel    string `json:"pump_label"`
	ValveLabel   string `json:"valve_label"`
	PumpLoading  bool   `json:"pump_loading"`
	ValveLoading bool   `json:"valve_loading"`
}
