package repository

import (
	"context"
	"time"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// CafeStore persists venues.  A zero district lists every cafe.
type CafeStore interface {
	ListCafes(ctx context.Context, district int) ([]model.Cafe, error)
	GetCafe(ctx context.Context, id string) (*model.Cafe, error)
	CreateCafe(ctx context.Context, c *model.Cafe) error
}

// ClubFilter narrows ListClubs.  Empty fields do not filter.
type ClubFilter struct {
	CafeID     string
	OwnerID    string
	ActiveOnly bool
}

// ClubStore persists clubs.
type ClubStore interface {
	ListClubs(ctx context.Context, f ClubFilter) ([]model.Club, error)
	GetClub(ctx context.Context, id string) (*model.Club, error)
	CreateClub(ctx context.Context, c *model.Club) error
}

// EventFilter combines the free-text, category and location predicates of
// the search endpoint.  All set fields must match.
type EventFilter struct {
	Query    string
	Category string
	District int
}

// EventStore persists events.  Every list is sorted ascending by date.
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListUpcomingEvents(ctx context.Context, now time.Time) ([]model.Event, error)
	ListClubEvents(ctx context.Context, clubID string) ([]model.Event, error)
	SearchEvents(ctx context.Context, f EventFilter) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	CreateEvent(ctx context.Context, e *model.Event) error
}

// RegistrationStore persists event registrations.
//
// CreateRegistration appends a row without looking at capacity.
// RegisterForEvent performs the duplicate check, the capacity check and the
// insert as one serialized operation and is what request handlers use.
type RegistrationStore interface {
	CreateRegistration(ctx context.Context, r *model.Registration) error
	RegisterForEvent(ctx context.Context, r *model.Registration) error
	RegistrationCount(ctx context.Context, eventID string) (int, error)
	RegistrationCounts(ctx context.Context) (map[string]int, error)
	IsUserRegistered(ctx context.Context, eventID, email string) (bool, error)
	ListEventRegistrations(ctx context.Context, eventID string) ([]model.Registration, error)
	ListUserRegistrations(ctx context.Context, userID string) ([]model.Registration, error)
	CancelRegistration(ctx context.Context, id, userID string) error
}

// MembershipStore persists the club_members join table.
type MembershipStore interface {
	JoinClub(ctx context.Context, clubID, userID string) (*model.ClubMember, error)
	LeaveClub(ctx context.Context, clubID, userID string) error
	ListClubMembers(ctx context.Context, clubID string) ([]model.ClubMember, error)
	ListMemberClubs(ctx context.Context, userID string) ([]model.Club, error)
}

// Store is the full data access contract.  One value is constructed per
// process and handed to the HTTP layer.
type Store interface {
	UserStore
	CafeStore
	ClubStore
	EventStore
	RegistrationStore
	MembershipStore
}
