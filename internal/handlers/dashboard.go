package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

// @Summary      Dashboard page
// @Tags         system
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *Handler) dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"IntervalMs": h.services.Charts.Interval().Milliseconds(),
		"Capacity":   h.services.Charts.Capacity(),
	})
}
