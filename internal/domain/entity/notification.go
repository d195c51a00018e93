package entity

import "time"

// NotificationPreferences is a flat record of per-channel, per-event
// toggles plus quiet hours. The whole record is replaced on save.
type NotificationPreferences struct {
	UserID string `json:"-"`

	// Email
	EmailNewMessages  bool `json:"emailNewMessages"`
	EmailNewOrders    bool `json:"emailNewOrders"`
	EmailOrderUpdates bool `json:"emailOrderUpdates"`
	EmailNewFollowers bool `json:"emailNewFollowers"`
	EmailNewsletter   bool `json:"emailNewsletter"`

	// Push
	PushNewMessages  bool `json:"pushNewMessages"`
	PushNewOrders    bool `json:"pushNewOrders"`
	PushOrderUpdates bool `json:"pushOrderUpdates"`
	PushNewFollowers bool `json:"pushNewFollowers"`

	// SMS
	SMSNewOrders    bool `json:"smsNewOrders"`
	SMSOrderUpdates bool `json:"smsOrderUpdates"`

	// Quiet hours, "HH:MM" local time; empty disables
	QuietHoursStart string `json:"quietHoursStart"`
	QuietHoursEnd   string `json:"quietHoursEnd"`

	UpdatedAt time.Time `json:"-"`
}

// DefaultNotificationPreferences returns the record used when a user has
// never saved preferences: transactional email on, marketing off.
func DefaultNotificationPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:            userID,
		EmailNewMessages:  true,
		EmailNewOrders:    true,
		EmailOrderUpdates: true,
		PushNewMessages:   true,
		PushNewOrders:     true,
	}
}
