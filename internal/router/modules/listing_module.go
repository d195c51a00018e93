package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dorpsplein/dorpsplein-api/internal/container"
	handlers "github.com/dorpsplein/dorpsplein-api/internal/interface/http"
	"github.com/dorpsplein/dorpsplein-api/internal/interface/middleware"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

// ListingModule wires the unified listing routes: the dishes resource,
// its garden view, the public recipe detail, promote-to-product and
// search.

type ListingModule struct {
	Handler *handlers.ListingHandler
	JWT     *helpers.JWTManager
}

func NewListingModule(h *handlers.ListingHandler, jwt *helpers.JWTManager) *ListingModule {
	return &ListingModule{Handler: h, JWT: jwt}
}

func (m *ListingModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	// Public detail and search. Auth is optional on the detail route so
	// owners still see their own private listings; everyone else only
	// gets published ones.
	softAuth := middleware.OptionalAuth(container.GetRedis(), m.JWT)
	rg.GET("/recipes/:id", softAuth, m.Handler.GetDetail)
	rg.GET("/listings/search", searchLimiter, m.Handler.Search)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile/dishes", m.Handler.ListDishes)
		auth.POST("/profile/dishes", m.Handler.CreateDish)
		auth.PATCH("/profile/dishes/:id", m.Handler.Patch)
		auth.DELETE("/profile/dishes/:id", m.Handler.Delete)
		auth.POST("/profile/dishes/:id/promote", m.Handler.Promote)

		auth.GET("/profile/garden", m.Handler.ListGarden)
		auth.POST("/profile/garden", m.Handler.CreateGarden)
		auth.PATCH("/profile/garden/:id", m.Handler.Patch)
		auth.DELETE("/profile/garden/:id", m.Handler.Delete)

		auth.GET("/seller/product-drafts/:id", m.Handler.ConsumeDraft)
	}
}
