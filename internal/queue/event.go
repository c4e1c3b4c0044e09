// Package queue carries registration.confirmed messages over RabbitMQ: the
// payload, a publisher used by the registration handler, and the consumer
// that appends each confirmation to the registration log.
package queue

// RegistrationConfirmedEvent is published after a registration is stored.
// It carries enough to write the log line without reading the store.
type RegistrationConfirmedEvent struct {
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	UserID         string `json:"user_id,omitempty"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	BookTitle      string `json:"book_title"`
	CafeID         string `json:"cafe_id"`
	CafeName       string `json:"cafe_name,omitempty"`
	EventDate      string `json:"event_date"`
	Registered     int    `json:"registered"`
	Capacity       int    `json:"capacity"`
	ConfirmedAt    string `json:"confirmed_at"`
}
