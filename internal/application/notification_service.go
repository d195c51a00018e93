package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
	"github.com/dorpsplein/dorpsplein-api/pkg/mailer"
)

// NotificationService loads and replaces the per-user toggle record and
// answers the "may we email this user about X" question for the worker.
type NotificationService struct {
	Repo   repo.NotificationRepository
	Logger *logrus.Logger
}

func NewNotificationService(r repo.NotificationRepository, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Repo: r, Logger: logger}
}

// Get returns the stored record or the defaults when none was ever saved.
func (s *NotificationService) Get(ctx context.Context, userID string) (*entity.NotificationPreferences, error) {
	p, err := s.Repo.Get(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return entity.DefaultNotificationPreferences(userID), nil
	}
	return p, nil
}

// Put replaces the whole record. There is no per-field save.
func (s *NotificationService) Put(ctx context.Context, userID string, p *entity.NotificationPreferences) (*entity.NotificationPreferences, error) {
	p.UserID = userID
	p.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Put(p); err != nil {
		return nil, err
	}
	return p, nil
}

// EmailAllowed reports whether the event type may be emailed to the user,
// honoring the per-event toggle and quiet hours. The welcome email is
// always allowed: it is transactional and precedes any saved record.
func (s *NotificationService) EmailAllowed(ctx context.Context, userID, event string, now time.Time) bool {
	if event == mailer.EventWelcome {
		return true
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		// Fail open for transactional events: a broken preference read
		// should not swallow order mail.
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("preference load failed")
		}
		return event == mailer.EventNewOrder || event == mailer.EventOrderUpdate
	}

	var on bool
	switch event {
	case mailer.EventNewMessage:
		on = p.EmailNewMessages
	case mailer.EventNewOrder:
		on = p.EmailNewOrders
	case mailer.EventOrderUpdate:
		on = p.EmailOrderUpdates
	case mailer.EventNewFollower:
		on = p.EmailNewFollowers
	default:
		on = false
	}
	if !on {
		return false
	}
	return !inQuietHours(p.QuietHoursStart, p.QuietHoursEnd, now)
}

// inQuietHours reports whether now falls in the [start, end) window.
// Windows may wrap midnight ("22:00" to "07:00").
func inQuietHours(start, end string, now time.Time) bool {
	if start == "" || end == "" {
		return false
	}
	s, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}
	startMin := s.Hour()*60 + s.Minute()
	endMin := e.Hour()*60 + e.Minute()
	nowMin := now.Hour()*60 + now.Minute()
	if startMin == endMin {
		return false
	}
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	return nowMin >= startMin || nowMin < endMin
}
