package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dorpsplein/dorpsplein-api/internal/container"
	handlers "github.com/dorpsplein/dorpsplein-api/internal/interface/http"
	"github.com/dorpsplein/dorpsplein-api/internal/interface/middleware"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

// AuthModule wires registration, sign-in and the signup field validators.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/refresh,
// /api/auth/validate-username, /api/auth/validate-email,
// GET /api/affiliate/validate-invite
// Protected: POST /api/auth/logout

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	// The wizard fires a check per keystroke burst; generous but bounded.
	validateLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/auth/validate-username", validateLimiter, m.Handler.ValidateUsername)
	rg.POST("/auth/validate-email", validateLimiter, m.Handler.ValidateEmail)
	rg.GET("/affiliate/validate-invite", validateLimiter, m.Handler.ValidateInvite)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
