package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
	"github.com/dorpsplein/dorpsplein-api/pkg/response"
	"github.com/dorpsplein/dorpsplein-api/pkg/validation"
)

// SellerHandler serves the seller-facing product management routes and
// workplace photos.
type SellerHandler struct {
	Listings          *app.ListingService
	Profiles          *app.ProfileService
	Logger            *logrus.Logger
	StripeOnboardBase string
}

func NewSellerHandler(listings *app.ListingService, profiles *app.ProfileService, logger *logrus.Logger, stripeOnboardBase string) *SellerHandler {
	return &SellerHandler{Listings: listings, Profiles: profiles, Logger: logger, StripeOnboardBase: stripeOnboardBase}
}

// Products lists a seller's for-sale (dorpsplein) listings.
func (s *SellerHandler) Products(c *gin.Context) {
	lh := &ListingHandler{Svc: s.Listings, Logger: s.Logger}
	f := repo.ListingFilter{
		UserID:   c.DefaultQuery("userId", c.GetString("userID")),
		Category: c.Query("category"),
		View:     "dorpsplein",
	}
	ls, err := s.Listings.List(c.Request.Context(), c.GetString("userID"), f)
	if err != nil {
		lh.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, listingsJSON(ls), "products", map[string]any{"count": len(ls)})
}

type productPatchRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// PatchProduct toggles a product between published and private.
func (s *SellerHandler) PatchProduct(c *gin.Context) {
	var req productPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	lh := &ListingHandler{Svc: s.Listings, Logger: s.Logger}
	l, err := s.Listings.SetActive(c.Request.Context(), c.GetString("userID"), c.Param("id"), *req.Active)
	if err != nil {
		lh.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, listingJSON(l), "product updated", nil)
}

func (s *SellerHandler) DeleteProduct(c *gin.Context) {
	lh := &ListingHandler{Svc: s.Listings, Logger: s.Logger}
	if err := s.Listings.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		lh.writeListingErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "product deleted", nil)
}

// WorkplacePhotos lists a seller's workplace photos, own by default.
func (s *SellerHandler) WorkplacePhotos(c *gin.Context) {
	userID := c.DefaultQuery("userId", c.GetString("userID"))
	photos, err := s.Profiles.WorkplacePhotos(userID)
	if err != nil {
		s.Logger.WithError(err).Error("workplace photo list failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, photos, "workplace photos", map[string]any{"count": len(photos)})
}

// UploadWorkplacePhoto accepts one multipart photo with an optional
// caption field.
func (s *SellerHandler) UploadWorkplacePhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read upload", nil)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := s.Profiles.AddWorkplacePhoto(c.Request.Context(), c.GetString("userID"), f, fh.Filename, fh.Header.Get("Content-Type"), c.PostForm("caption"), fh.Size)
	if err != nil {
		if errors.Is(err, app.ErrNotAnImage) || errors.Is(err, app.ErrTooLarge) {
			response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		s.Logger.WithError(err).Error("workplace photo upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "workplace photo added", nil)
}

func (s *SellerHandler) DeleteWorkplacePhoto(c *gin.Context) {
	if err := s.Profiles.DeleteWorkplacePhoto(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		response.Error[any](c, http.StatusNotFound, "workplace photo not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "workplace photo deleted", nil)
}

// StripeOnboard hands back the provider onboarding URL. Payment
// processing itself stays with the provider.
func (s *SellerHandler) StripeOnboard(c *gin.Context) {
	u, err := s.Profiles.Get(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if !u.IsSeller() {
		response.Error[any](c, http.StatusForbidden, "only sellers can onboard for payouts", nil)
		return
	}
	state := uuid.NewString()
	response.Success(c, http.StatusOK, gin.H{
		"url":   s.StripeOnboardBase + "/" + state,
		"state": state,
	}, "onboarding link", nil)
}
