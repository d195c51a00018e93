package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	"github.com/dorpsplein/dorpsplein-api/pkg/response"
	"github.com/dorpsplein/dorpsplein-api/pkg/validation"
)

type NotificationHandler struct {
	Svc    *app.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *app.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

// Get returns the stored preferences, or the defaults when the user has
// never saved any.
func (h *NotificationHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("notification preferences read failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "notification preferences", nil)
}

var quietHourRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Put replaces the whole preference record. Partial updates are not
// supported; the client always sends the complete form state.
func (h *NotificationHandler) Put(c *gin.Context) {
	var p entity.NotificationPreferences
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	for field, v := range map[string]string{"quietHoursStart": p.QuietHoursStart, "quietHoursEnd": p.QuietHoursEnd} {
		if v != "" && !quietHourRe.MatchString(v) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid quiet hours", gin.H{field: "must be HH:MM"})
			return
		}
	}

	saved, err := h.Svc.Put(c.Request.Context(), c.GetString("userID"), &p)
	if err != nil {
		h.Logger.WithError(err).Error("notification preferences save failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to save preferences", nil)
		return
	}
	response.Success(c, http.StatusOK, saved, "notification preferences saved", nil)
}
