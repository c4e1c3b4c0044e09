package model

import "time"

// Registration records a signup for an event.  UserID is optional at the
// storage level; the HTTP layer always fills it.  The pair
// (EventID, Email) is unique, emails compared case-insensitively.
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    *string   `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegistrationWithEvent pairs a registration with its event for profile pages.
type RegistrationWithEvent struct {
	Registration
	Event *Event `json:"event"`
}
