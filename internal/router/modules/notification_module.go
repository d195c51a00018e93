package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dorpsplein/dorpsplein-api/internal/container"
	handlers "github.com/dorpsplein/dorpsplein-api/internal/interface/http"
	"github.com/dorpsplein/dorpsplein-api/internal/interface/middleware"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	JWT     *helpers.JWTManager
}

func NewNotificationModule(h *handlers.NotificationHandler, jwt *helpers.JWTManager) *NotificationModule {
	return &NotificationModule{Handler: h, JWT: jwt}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/notifications/preferences", m.Handler.Get)
		auth.PUT("/notifications/preferences", m.Handler.Put)
	}
}
