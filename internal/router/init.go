package router

import (
	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	"github.com/dorpsplein/dorpsplein-api/internal/container"
	pginfra "github.com/dorpsplein/dorpsplein-api/internal/infrastructure/postgres"
	handlers "github.com/dorpsplein/dorpsplein-api/internal/interface/http"
	"github.com/dorpsplein/dorpsplein-api/internal/router/modules"
)

// InitModules builds all services from the container singletons and
// registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()
	jwt := container.GetJWT()

	users := pginfra.NewUserRepository(pool)
	listings := pginfra.NewListingRepository(pool)
	notifications := pginfra.NewNotificationRepository(pool)
	workplace := pginfra.NewWorkplacePhotoRepository(pool)

	accounts := app.NewAccountService(users, jwt, rdb, logger, cfg, container.GetRabbitPub())
	listingSvc := app.NewListingService(listings, rdb, logger, container.GetES(), cfg.ESListingsIndex, cfg.ProductDraftTTL)
	profiles := app.NewProfileService(users, workplace, container.GetGCS(), cfg.GCSBucket, cfg.MaxPhotoBytes, rdb, logger)
	notifSvc := app.NewNotificationService(notifications, logger)
	uploads := app.NewUploadService(container.GetGCS(), cfg.GCSBucket, cfg.MaxPhotoBytes, cfg.MaxVideoBytes, logger)
	geocoding := app.NewGeocodingService(cfg.DutchGeocodingURL, cfg.GlobalGeocodingURL, cfg.GeocodingTimeout, rdb, cfg.GeocodingCacheTTL, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(accounts, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewListingModule(handlers.NewListingHandler(listingSvc, logger), jwt))
	r.Add(modules.NewSellerModule(handlers.NewSellerHandler(listingSvc, profiles, logger, cfg.StripeOnboardBaseURL), jwt))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profiles, listingSvc, logger), jwt))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(notifSvc, logger), jwt))
	r.Add(modules.NewUploadModule(handlers.NewUploadHandler(uploads, logger), jwt))
	r.Add(modules.NewGeocodingModule(handlers.NewGeocodingHandler(geocoding, logger)))
	r.Add(modules.NewDebugModule())
}
