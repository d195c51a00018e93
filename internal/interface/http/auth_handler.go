package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
	"github.com/dorpsplein/dorpsplein-api/pkg/response"
	"github.com/dorpsplein/dorpsplein-api/pkg/validation"
)

// AuthHandler covers registration, sign-in and the async signup
// validators.
type AuthHandler struct {
	Svc     *app.AccountService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *app.AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type validateFieldRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register accepts the full wizard payload, re-runs every step guard and
// creates the account. On success the user is signed in immediately.
func (h *AuthHandler) Register(c *gin.Context) {
	var form app.RegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), &form)
	if err != nil {
		var regErr *app.RegistrationError
		if errors.As(err, &regErr) {
			response.Error[any](c, http.StatusUnprocessableEntity, "registration form incomplete", regErr.Details())
			return
		}
		if errors.Is(err, app.ErrInviteInvalid) {
			response.Error[any](c, http.StatusForbidden, "invalid or expired invite", nil)
			return
		}
		h.Logger.WithError(err).Error("registration failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	pair, err := h.Svc.IssueTokens(c.Request.Context(), u)
	if err != nil {
		// Account exists; the client can still sign in manually.
		response.Success(c, http.StatusCreated, gin.H{"user_id": u.ID, "username": u.Username}, "account created, sign in to continue", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusCreated, gin.H{
		"user_id":  u.ID,
		"username": u.Username,
		"email":    u.Email,
		"name":     u.DisplayName(),
	}, "account created", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString("userID"))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// ValidateUsername is the async wizard field check. It always answers 200
// with a tri-state result; only malformed requests are 4xx.
func (h *AuthHandler) ValidateUsername(c *gin.Context) {
	var req validateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.ValidateUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.Logger.WithError(err).Warn("username check failed")
	}
	response.Success(c, http.StatusOK, res, "username checked", nil)
}

func (h *AuthHandler) ValidateEmail(c *gin.Context) {
	var req validateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.ValidateEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.Logger.WithError(err).Warn("email check failed")
	}
	response.Success(c, http.StatusOK, res, "email checked", nil)
}

// ValidateInvite checks a signup invite token from the query string.
func (h *AuthHandler) ValidateInvite(c *gin.Context) {
	token := c.Query("token")
	ok, err := h.Svc.ValidateInvite(c.Request.Context(), token)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "invite check failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"valid": ok}, "invite checked", nil)
}
