package handlers

import (
	"water_dashboard/internal/logger"
	"water_dashboard/internal/metrics"
	"water_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. m and log may be nil.
func NewHandler(services *service.Service, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{services: services, metrics: m, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.metrics.GinMiddleware(), h.requestLogger)
	router.SetHTMLTemplate(dashboardTemplate)

	router.GET("/", h.dashboard)
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h.registerAPIRoutes(router)

	// live series/controls stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/readings", h.getReadings)
		api.GET("/series", h.getSeries)
		h.registerControlRoutes(api)
		api.GET("/events", h.getEvents)
	}
}

func (h *Handler) registerControlRoutes(api *gin.RouterGroup) {
	controls := api.Group("/controls")
	{
		controls.GET("", h.getControls)
		controls.POST("/:actuator/toggle", h.toggleControl)
		// Body example: {"on":true}
		controls.POST("/:actuator", h.setControl)
	}
}
