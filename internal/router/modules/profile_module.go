package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dorpsplein/dorpsplein-api/internal/container"
	handlers "github.com/dorpsplein/dorpsplein-api/internal/interface/http"
	"github.com/dorpsplein/dorpsplein-api/internal/interface/middleware"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	// Public seller pages, rate-limited per IP. Soft auth lets owners
	// see their full profile on their own public page.
	publicLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	softAuth := middleware.OptionalAuth(container.GetRedis(), m.JWT)
	rg.GET("/users/:username", publicLimiter, softAuth, m.Handler.GetByUsername)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile", m.Handler.Get)
		auth.PUT("/profile/update", m.Handler.Update)
		auth.POST("/profile/photo", m.Handler.UploadPhoto)
		auth.GET("/profile/stats", m.Handler.Stats)
	}
}
