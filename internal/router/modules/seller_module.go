package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dorpsplein/dorpsplein-api/internal/container"
	handlers "github.com/dorpsplein/dorpsplein-api/internal/interface/http"
	"github.com/dorpsplein/dorpsplein-api/internal/interface/middleware"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

type SellerModule struct {
	Handler *handlers.SellerHandler
	JWT     *helpers.JWTManager
}

func NewSellerModule(h *handlers.SellerHandler, jwt *helpers.JWTManager) *SellerModule {
	return &SellerModule{Handler: h, JWT: jwt}
}

func (m *SellerModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/seller/products", m.Handler.Products)
		auth.PATCH("/products/:id", m.Handler.PatchProduct)
		auth.DELETE("/products/:id", m.Handler.DeleteProduct)

		auth.GET("/seller/workplace-photos", m.Handler.WorkplacePhotos)
		auth.POST("/seller/upload-workplace-photos", m.Handler.UploadWorkplacePhoto)
		auth.DELETE("/seller/workplace-photos/:id", m.Handler.DeleteWorkplacePhoto)

		auth.POST("/stripe/connect/onboard", m.Handler.StripeOnboard)
	}
}
