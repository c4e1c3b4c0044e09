package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

// MemoryStore keeps every collection in process memory.  Rows are held in
// insertion order and queried by scanning; nothing survives a restart.  A
// single RWMutex guards all collections so that the guarded registration
// path observes and mutates state atomically.
type MemoryStore struct {
	mu            sync.RWMutex
	users         []*model.User
	cafes         []*model.Cafe
	clubs         []*model.Club
	events        []*model.Event
	registrations []*model.Registration
	members       []*model.ClubMember

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.  Call Seed to load sample data.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: func() time.Time { return time.Now().UTC() }}
}

func newID() string { return uuid.NewString() }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// stamp fills a missing id and creation time.
func (s *MemoryStore) stamp(id *string, at *time.Time) {
	if *id == "" {
		*id = newID()
	}
	if at.IsZero() {
		*at = s.now()
	}
}

// ---- users ----

func (s *MemoryStore) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	for _, ex := range s.users {
		if ex.Email == u.Email {
			return ErrEmailExists
		}
		if strings.EqualFold(ex.Username, u.Username) {
			return ErrUsernameExists
		}
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	s.stamp(&u.ID, &u.CreatedAt)
	cp := *u
	s.users = append(s.users, &cp)
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.findUser(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = normalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username = strings.TrimSpace(username)
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) findUser(id string) *model.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// ---- cafes ----

func (s *MemoryStore) ListCafes(_ context.Context, district int) ([]model.Cafe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Cafe, 0, len(s.cafes))
	for _, c := range s.cafes {
		if district != 0 && c.District != district {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *MemoryStore) GetCafe(_ context.Context, id string) (*model.Cafe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.findCafe(id); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, ErrCafeNotFound
}

func (s *MemoryStore) CreateCafe(_ context.Context, c *model.Cafe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.OwnerID != nil && s.findUser(*c.OwnerID) == nil {
		return ErrInvalidReference
	}
	s.stamp(&c.ID, &c.CreatedAt)
	cp := *c
	s.cafes = append(s.cafes, &cp)
	return nil
}

func (s *MemoryStore) findCafe(id string) *model.Cafe {
	for _, c := range s.cafes {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ---- clubs ----

func (s *MemoryStore) ListClubs(_ context.Context, f ClubFilter) ([]model.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Club, 0, len(s.clubs))
	for _, c := range s.clubs {
		if f.CafeID != "" && c.CafeID != f.CafeID {
			continue
		}
		if f.OwnerID != "" && c.OwnerID != f.OwnerID {
			continue
		}
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *MemoryStore) GetClub(_ context.Context, id string) (*model.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.findClub(id); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, ErrClubNotFound
}

func (s *MemoryStore) CreateClub(_ context.Context, c *model.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findCafe(c.CafeID) == nil || s.findUser(c.OwnerID) == nil {
		return ErrInvalidReference
	}
	s.stamp(&c.ID, &c.CreatedAt)
	cp := *c
	s.clubs = append(s.clubs, &cp)
	return nil
}

func (s *MemoryStore) findClub(id string) *model.Club {
	for _, c := range s.clubs {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// sortEvents orders by date, breaking ties by id for stable output.
func sortEvents(evs []model.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Date.Equal(evs[j].Date) {
			return evs[i].ID < evs[j].ID
		}
		return evs[i].Date.Before(evs[j].Date)
	})
}
