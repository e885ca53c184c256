package handlers

import (
	"errors"
	"net/http"

	"water_dashboard/internal/models"
	"water_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errUnknownActuator = "unknown actuator; use pump or valve"
	errInFlight        = "a request for this actuator is already in flight"
	errNotMounted      = "controls are not available"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// SetControlRequest is the body of an explicit actuator set.
type SetControlRequest struct {
	// Desired position: true switches the pump on / opens the valve.
	On *bool `json:"on" binding:"required" example:"true"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get controls
// @Description  Server-confirmed pump and valve positions with their loading flags.
// @Tags         controls
// @Produce      json
// @Success      200  {object}  models.ControlsView
// @Router       /api/v1/controls [get]
func (h *Handler) getControls(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Controls.View())
}

// @Summary      Toggle actuator
// @Description  Requests the inverse of the displayed position. The response carries the position the sensor API confirmed; a failed request leaves it unchanged.
// @Tags         controls
// @Produce      json
// @Param        actuator  path      string  true  "Actuator"  Enums(pump,valve)
// @Success      200       {object}  models.ControlsView
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Failure      503       {object}  map[string]string
// @Router       /api/v1/controls/{actuator}/toggle [post]
func (h *Handler) toggleControl(c *gin.Context) {
	a := models.Actuator(c.Param("actuator"))
	view, err := h.services.Controls.Toggle(c.Request.Context(), a)
	h.respondControl(c, a, view, err)
}

// @Summary      Set actuator
// @Tags         controls
// @Accept       json
// @Produce      json
// @Param        actuator  path      string             true  "Actuator"  Enums(pump,valve)
// @Param        body      body      SetControlRequest  true  "Desired position"
// @Success      200       {object}  models.ControlsView
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Failure      503       {object}  map[string]string
// @Router       /api/v1/controls/{actuator} [post]
func (h *Handler) setControl(c *gin.Context) {
	a := models.Actuator(c.Param("actuator"))
	if !a.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownActuator})
		return
	}
	var req SetControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	view, err := h.services.Controls.Set(c.Request.Context(), a, *req.On)
	h.respondControl(c, a, view, err)
}

func (h *Handler) respondControl(c *gin.Context, a models.Actuator, view models.ControlsView, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, view)
	case errors.Is(err, service.ErrUnknownActuator):
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownActuator})
	case errors.Is(err, service.ErrToggleInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": errInFlight, "controls": view})
	case errors.Is(err, service.ErrNotMounted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNotMounted})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "control request failed", "control_request_failed", err, "actuator", a)
	}
}
