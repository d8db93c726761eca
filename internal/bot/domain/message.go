package domain

// InboundMessage is one transport callback: the sender's address plus an
// optional text body and an optional media reference. The media reference
// is opaque; the core never inspects its content.
type InboundMessage struct {
	From     string
	Body     string
	MediaURL string
}

// Notification is an outbound courtesy message produced on assignment and
// published for the notifier service to deliver.
type Notification struct {
	ID    string `json:"notification_id"`
	To    string `json:"to"`
	Body  string `json:"body"`
	JobID int64  `json:"job_id"`
}
