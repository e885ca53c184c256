package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"water_dashboard/internal/models"
	"water_dashboard/internal/service"
)

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _, _, _ := newTestServices()
	w := doRequest(newTestRouter(s), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestGetControls(t *testing.T) {
	s, ctl, _, _ := newTestServices()
	ctl.view = models.ControlsView{Pump: true, PumpLabel: "ON", ValveLabel: "CLOSED"}

	w := doRequest(newTestRouter(s), http.MethodGet, "/api/v1/controls", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got models.ControlsView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != ctl.view {
		t.Fatalf("got %+v, want %+v", got, ctl.view)
	}
}

func TestToggleControl(t *testing.T) {
	s, ctl, _, _ := newTestServices()
	ctl.view = models.ControlsView{Pump: true, PumpLabel: "ON", ValveLabel: "CLOSED"}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPost, "/api/v1/controls/pump/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if ctl.toggles != 1 || ctl.lastA != models.Pump {
		t.Fatalf("toggle not forwarded: %+v", ctl)
	}
	if !strings.Contains(w.Body.String(), `"pump_label":"ON"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestToggleControl_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"in flight", service.ErrToggleInFlight, http.StatusConflict},
		{"unknown actuator", service.ErrUnknownActuator, http.StatusNotFound},
		{"not mounted", service.ErrNotMounted, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, ctl, _, _ := newTestServices()
			ctl.err = tc.err
			w := doRequest(newTestRouter(s), http.MethodPost, "/api/v1/controls/valve/toggle", "")
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestToggleControl_InFlightIncludesView(t *testing.T) {
	s, ctl, _, _ := newTestServices()
	ctl.view = models.ControlsView{PumpLoading: true, PumpLabel: "OFF", ValveLabel: "CLOSED"}
	ctl.err = service.ErrToggleInFlight

	w := doRequest(newTestRouter(s), http.MethodPost, "/api/v1/controls/pump/toggle", "")
	var body struct {
		Error    string              `json:"error"`
		Controls models.ControlsView `json:"controls"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != errInFlight || !body.Controls.PumpLoading {
		t.Fatalf("body = %+v", body)
	}
}

func TestSetControl(t *testing.T) {
	s, ctl, _, _ := newTestServices()
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPost, "/api/v1/controls/valve", `{"on":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if ctl.sets != 1 || ctl.lastA != models.Valve || ctl.lastOn == nil || *ctl.lastOn {
		t.Fatalf("set not forwarded: %+v", ctl)
	}
}

func TestSetControl_Validation(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing on", "/api/v1/controls/pump", `{}`, http.StatusBadRequest},
		{"not json", "/api/v1/controls/pump", `on=true`, http.StatusBadRequest},
		{"wrong type", "/api/v1/controls/pump", `{"on":"yes"}`, http.StatusBadRequest},
		{"unknown actuator", "/api/v1/controls/heater", `{"on":true}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, ctl, _, _ := newTestServices()
			w := doRequest(newTestRouter(s), http.MethodPost, tc.path, tc.body)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
			if ctl.sets != 0 {
				t.Fatalf("invalid request reached the service")
			}
		})
	}
}
