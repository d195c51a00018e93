package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	"github.com/dorpsplein/dorpsplein-api/pkg/response"
	"github.com/dorpsplein/dorpsplein-api/pkg/validation"
)

type ProfileHandler struct {
	Svc      *app.ProfileService
	Listings *app.ListingService
	Logger   *logrus.Logger
}

func NewProfileHandler(svc *app.ProfileService, listings *app.ListingService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Listings: listings, Logger: logger}
}

type updateProfileRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	DisplayNamePref *string `json:"displayNamePref"`
	Bio             *string `json:"bio"`
	Quote           *string `json:"quote"`
	Street          *string `json:"street"`
	HouseNumber     *string `json:"houseNumber"`
	PostalCode      *string `json:"postalCode"`
	City            *string `json:"city"`
	Country         *string `json:"country"`
	KVKNumber       *string `json:"kvkNumber"`
	VATNumber       *string `json:"vatNumber"`
	CourierActive   *bool   `json:"courierActive"`
}

// ownerJSON is the full profile view for the account owner.
func ownerJSON(u *entity.User) gin.H {
	out := gin.H{
		"id":              u.ID,
		"email":           u.Email,
		"username":        u.Username,
		"firstName":       u.FirstName,
		"lastName":        u.LastName,
		"displayName":     u.DisplayName(),
		"displayNamePref": u.DisplayNamePref,
		"bio":             u.Bio,
		"quote":           u.Quote,
		"avatarUrl":       u.AvatarURL,
		"street":          u.Street,
		"houseNumber":     u.HouseNumber,
		"postalCode":      u.PostalCode,
		"city":            u.City,
		"country":         u.Country,
		"sellerRoles":     u.SellerRoles,
		"buyerType":       u.BuyerType,
		"socialLogin":     u.SocialLogin,
		"isVerified":      u.IsVerified,
		"createdAt":       u.CreatedAt,
	}
	if u.Business != nil {
		out["business"] = gin.H{
			"kvkNumber":    u.Business.KVKNumber,
			"vatNumber":    u.Business.VATNumber,
			"subscription": u.Business.Subscription,
		}
	}
	if u.Courier != nil {
		out["courier"] = gin.H{
			"active":   u.Courier.Active,
			"verified": u.Courier.Verified,
			"rating":   u.Courier.Rating,
		}
	}
	return out
}

// publicJSON is the profile view shown to other users. Email and address
// details stay private.
func publicJSON(u *entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"displayName": u.DisplayName(),
		"bio":         u.Bio,
		"quote":       u.Quote,
		"avatarUrl":   u.AvatarURL,
		"city":        u.City,
		"sellerRoles": u.SellerRoles,
		"isVerified":  u.IsVerified,
		"createdAt":   u.CreatedAt,
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, ownerJSON(u), "profile", nil)
}

// GetByUsername is the public seller profile page.
func (h *ProfileHandler) GetByUsername(c *gin.Context) {
	u, err := h.Svc.GetByUsername(c.Param("username"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if u.ID == c.GetString("userID") {
		response.Success(c, http.StatusOK, ownerJSON(u), "profile", nil)
		return
	}
	response.Success(c, http.StatusOK, publicJSON(u), "profile", nil)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), app.UpdateProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DisplayNamePref: req.DisplayNamePref,
		Bio:             req.Bio,
		Quote:           req.Quote,
		Street:          req.Street,
		HouseNumber:     req.HouseNumber,
		PostalCode:      req.PostalCode,
		City:            req.City,
		Country:         req.Country,
		KVKNumber:       req.KVKNumber,
		VATNumber:       req.VATNumber,
		CourierActive:   req.CourierActive,
	})
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to update profile", err.Error())
		return
	}
	response.Success(c, http.StatusOK, ownerJSON(u), "profile updated", nil)
}

// UploadPhoto stores the avatar.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
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

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString("userID"), f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		if errors.Is(err, app.ErrNotAnImage) || errors.Is(err, app.ErrTooLarge) {
			response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatarUrl": url}, "profile photo updated", nil)
}

// Stats returns the listing counters shown on the profile page.
func (h *ProfileHandler) Stats(c *gin.Context) {
	userID := c.DefaultQuery("userId", c.GetString("userID"))
	st, err := h.Listings.StatsFor(c.Request.Context(), c.GetString("userID"), userID)
	if err != nil {
		h.Logger.WithError(err).Error("profile stats failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, st, "profile stats", nil)
}
