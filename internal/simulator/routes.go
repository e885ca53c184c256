package simulator

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errMissingOn = "Invalid request. 'on' field is missing."

// Router builds the gin engine serving the sensor API.
func (s *Simulator) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/sensors", s.getSensors)
		api.GET("/ph", s.getPH)
		api.GET("/tds", s.getTDS)
		api.GET("/turbidity", s.getTurbidity)
		api.GET("/temperature", s.getTemperature)

		control := api.Group("/control")
		{
			control.GET("/state", s.getControlState)
			control.POST("/pump", s.setRelay("pump", s.SetPump))
			control.POST("/valve", s.setRelay("valve", s.SetValve))
		}
	}
	return router
}

func (s *Simulator) getSensors(c *gin.Context) {
	s.mu.Lock()
	r := s.readings()
	out := gin.H{"ph": r.PH, "tds": r.TDS, "turb": r.Turbidity, "temp": r.Temperature, "error": nil}
	for _, k := range []string{"ph", "tds", "turb", "temp"} {
		if s.dropField() {
			out[k] = nil
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Simulator) getPH(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ph": s.Readings().PH})
}

func (s *Simulator) getTDS(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tds": s.Readings().TDS})
}

func (s *Simulator) getTurbidity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"turbidity": s.Readings().Turbidity})
}

func (s *Simulator) getTemperature(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"temperature": s.Readings().Temperature})
}

func (s *Simulator) getControlState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pump": s.Pump(), "valve": s.Valve()})
}

// setRelay handles POST {"on": ...}. Any JSON value is accepted for "on" and
// interpreted by truthiness; a missing field or body is a 400.
func (s *Simulator) setRelay(name string, set func(bool) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingOn})
			return
		}
		v, ok := body["on"]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingOn})
			return
		}
		c.JSON(http.StatusOK, gin.H{name: set(truthy(v)), "status": "success"})
	}
}

// truthy interprets a decoded JSON value as a switch position.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
