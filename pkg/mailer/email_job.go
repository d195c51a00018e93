package mailer

// Email event types put on the queue. The worker maps each to a template
// and checks the recipient's notification preferences before sending.
const (
	EventWelcome     = "welcome"
	EventNewMessage  = "new_message"
	EventNewOrder    = "new_order"
	EventOrderUpdate = "order_update"
	EventNewFollower = "new_follower"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Subject/Text/HTML may be set directly, or Event + Data used to render a
// template in the worker.
type EmailJob struct {
	To      string         `json:"to"`
	UserID  string         `json:"user_id,omitempty"` // recipient, for preference checks
	Subject string         `json:"subject,omitempty"`
	Text    string         `json:"text,omitempty"`
	HTML    string         `json:"html,omitempty"`
	Event   string         `json:"event,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
