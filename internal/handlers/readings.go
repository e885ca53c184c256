package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Reading history
// @Description  Readings currently held in the bounded history, oldest first.
// @Tags         charts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, capacity, readings"
// @Router       /api/v1/readings [get]
func (h *Handler) getReadings(c *gin.Context) {
	readings := h.services.Charts.Readings()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"capacity": h.services.Charts.Capacity(),
		"readings": readings,
	})
}

// @Summary      Chart series
// @Description  pH, TDS, turbidity and temperature series with time-of-day labels and padded Y bounds.
// @Tags         charts
// @Produce      json
// @Success      200  {array}  models.Series
// @Router       /api/v1/series [get]
func (h *Handler) getSeries(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Charts.Series())
}
