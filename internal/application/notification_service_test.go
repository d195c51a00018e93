package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	"github.com/dorpsplein/dorpsplein-api/pkg/mailer"
)

func at(hhmm string) time.Time {
	tm, _ := time.Parse("15:04", hhmm)
	return time.Date(2026, 8, 29, tm.Hour(), tm.Minute(), 0, 0, time.UTC)
}

func TestNotificationGet_DefaultsWhenUnsaved(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), testLogger())

	p, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, p.EmailNewMessages)
	assert.True(t, p.EmailNewOrders)
	assert.False(t, p.EmailNewsletter)
	assert.Empty(t, p.QuietHoursStart)
}

func TestNotificationPut_RoundTrip(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), testLogger())
	ctx := context.Background()

	p, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)

	p.EmailNewMessages = false
	p.EmailNewsletter = true
	p.QuietHoursStart = "22:00"
	p.QuietHoursEnd = "07:00"
	_, err = svc.Put(ctx, "user-1", p)
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, reloaded.EmailNewMessages)
	assert.True(t, reloaded.EmailNewsletter)
	assert.Equal(t, "22:00", reloaded.QuietHoursStart)
}

func TestNotificationPut_ReplacesWholeRecord(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), testLogger())
	ctx := context.Background()

	first, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	first.EmailNewsletter = true
	_, err = svc.Put(ctx, "user-1", first)
	require.NoError(t, err)

	// A PUT with the zero record wipes every toggle, including ones the
	// earlier save turned on.
	_, err = svc.Put(ctx, "user-1", &entity.NotificationPreferences{})
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, reloaded.EmailNewsletter)
	assert.False(t, reloaded.EmailNewMessages)
}

func TestEmailAllowed_WelcomeAlways(t *testing.T) {
	r := newFakeNotificationRepo()
	r.getErr = assert.AnError
	svc := NewNotificationService(r, testLogger())

	assert.True(t, svc.EmailAllowed(context.Background(), "user-1", mailer.EventWelcome, at("12:00")))
}

func TestEmailAllowed_TogglesAndQuietHours(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), testLogger())
	ctx := context.Background()

	p, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	p.EmailNewFollowers = false
	p.QuietHoursStart = "22:00"
	p.QuietHoursEnd = "07:00"
	_, err = svc.Put(ctx, "user-1", p)
	require.NoError(t, err)

	assert.False(t, svc.EmailAllowed(ctx, "user-1", mailer.EventNewFollower, at("12:00")), "toggle off")
	assert.True(t, svc.EmailAllowed(ctx, "user-1", mailer.EventNewOrder, at("12:00")))
	assert.False(t, svc.EmailAllowed(ctx, "user-1", mailer.EventNewOrder, at("23:30")), "quiet hours")
	assert.False(t, svc.EmailAllowed(ctx, "user-1", mailer.EventNewOrder, at("06:59")), "quiet hours wrap midnight")
	assert.True(t, svc.EmailAllowed(ctx, "user-1", mailer.EventNewOrder, at("07:00")), "window end is exclusive")
}

func TestEmailAllowed_FailOpenForOrderEvents(t *testing.T) {
	r := newFakeNotificationRepo()
	r.getErr = assert.AnError
	svc := NewNotificationService(r, testLogger())
	ctx := context.Background()

	assert.True(t, svc.EmailAllowed(ctx, "user-1", mailer.EventNewOrder, at("12:00")))
	assert.True(t, svc.EmailAllowed(ctx, "user-1", mailer.EventOrderUpdate, at("12:00")))
	assert.False(t, svc.EmailAllowed(ctx, "user-1", mailer.EventNewFollower, at("12:00")))
}

func TestInQuietHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		now        string
		want       bool
	}{
		{"disabled when empty", "", "", "23:00", false},
		{"inside simple window", "13:00", "15:00", "14:00", true},
		{"outside simple window", "13:00", "15:00", "16:00", false},
		{"wrap late evening", "22:00", "07:00", "23:30", true},
		{"wrap early morning", "22:00", "07:00", "03:00", true},
		{"wrap daytime", "22:00", "07:00", "12:00", false},
		{"start equals end", "08:00", "08:00", "08:00", false},
		{"bad format", "later", "07:00", "03:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inQuietHours(tt.start, tt.end, at(tt.now)))
		})
	}
}
