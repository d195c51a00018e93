package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dorpsplein/dorpsplein-api/internal/container"
	handlers "github.com/dorpsplein/dorpsplein-api/internal/interface/http"
	"github.com/dorpsplein/dorpsplein-api/internal/interface/middleware"
)

// GeocodingModule is public: the signup wizard calls it before the user
// has an account. Tight per-IP+path limits instead.

type GeocodingModule struct {
	Handler *handlers.GeocodingHandler
}

func NewGeocodingModule(h *handlers.GeocodingHandler) *GeocodingModule {
	return &GeocodingModule{Handler: h}
}

func (m *GeocodingModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP)

	rg.GET("/geocoding/dutch", rl, m.Handler.Dutch)
	rg.POST("/geocoding/global", rl, m.Handler.Global)
}
