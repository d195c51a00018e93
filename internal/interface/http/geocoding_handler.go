package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	"github.com/dorpsplein/dorpsplein-api/pkg/response"
	"github.com/dorpsplein/dorpsplein-api/pkg/validation"
)

type GeocodingHandler struct {
	Svc    *app.GeocodingService
	Logger *logrus.Logger
}

func NewGeocodingHandler(svc *app.GeocodingService, logger *logrus.Logger) *GeocodingHandler {
	return &GeocodingHandler{Svc: svc, Logger: logger}
}

// Dutch resolves a postcode + huisnummer pair. Malformed input is a 422
// with the field that failed; a well-formed pair that matches nothing is
// a 404.
func (h *GeocodingHandler) Dutch(c *gin.Context) {
	addr, err := h.Svc.LookupDutch(c.Request.Context(), c.Query("postcode"), c.Query("huisnummer"))
	switch {
	case errors.Is(err, app.ErrInvalidPostcode):
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid postcode", gin.H{"postcode": err.Error()})
	case errors.Is(err, app.ErrInvalidHouseNumber):
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid house number", gin.H{"huisnummer": err.Error()})
	case errors.Is(err, app.ErrAddressNotFound):
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
	case err != nil:
		h.Logger.WithError(err).Warn("dutch geocoding lookup failed")
		response.Error[any](c, http.StatusBadGateway, "address lookup unavailable", nil)
	default:
		response.Success(c, http.StatusOK, addr, "address found", nil)
	}
}

// Global resolves a free-form address.
func (h *GeocodingHandler) Global(c *gin.Context) {
	var req app.GlobalQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	addr, err := h.Svc.LookupGlobal(c.Request.Context(), req)
	switch {
	case errors.Is(err, app.ErrAddressNotFound):
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
	case err != nil:
		h.Logger.WithError(err).Warn("global geocoding lookup failed")
		response.Error[any](c, http.StatusBadGateway, "address lookup unavailable", nil)
	default:
		response.Success(c, http.StatusOK, addr, "address found", nil)
	}
}
