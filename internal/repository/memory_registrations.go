package repository

import (
	"context"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

// CreateRegistration appends a registration without a capacity check.  The
// (event, email) pair is still unique.
func (s *MemoryStore) CreateRegistration(_ context.Context, r *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findEvent(r.EventID) == nil {
		return ErrEventNotFound
	}
	return s.insertRegistration(r)
}

// RegisterForEvent checks for a duplicate, then for capacity, then inserts,
// all under the write lock.
func (s *MemoryStore) RegisterForEvent(_ context.Context, r *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.findEvent(r.EventID)
	if ev == nil {
		return ErrEventNotFound
	}
	if s.hasRegistration(r.EventID, r.Email) {
		return ErrAlreadyRegistered
	}
	if s.countRegistrations(r.EventID) >= ev.Capacity {
		return ErrEventFull
	}
	return s.insertRegistration(r)
}

func (s *MemoryStore) insertRegistration(r *model.Registration) error {
	r.Email = normalizeEmail(r.Email)
	if s.hasRegistration(r.EventID, r.Email) {
		return ErrAlreadyRegistered
	}
	if r.UserID != nil && s.findUser(*r.UserID) == nil {
		return ErrInvalidReference
	}
	s.stamp(&r.ID, &r.CreatedAt)
	cp := *r
	s.registrations = append(s.registrations, &cp)
	return nil
}

func (s *MemoryStore) hasRegistration(eventID, email string) bool {
	email = normalizeEmail(email)
	for _, r := range s.registrations {
		if r.EventID == eventID && r.Email == email {
			return true
		}
	}
	return false
}

func (s *MemoryStore) countRegistrations(eventID string) int {
	n := 0
	for _, r := range s.registrations {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func (s *MemoryStore) RegistrationCount(_ context.Context, eventID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countRegistrations(eventID), nil
}

// RegistrationCounts returns the number of registrations per event id.
// Events without registrations are absent from the map.
func (s *MemoryStore) RegistrationCounts(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int)
	for _, r := range s.registrations {
		out[r.EventID]++
	}
	return out, nil
}

func (s *MemoryStore) IsUserRegistered(_ context.Context, eventID, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasRegistration(eventID, email), nil
}

func (s *MemoryStore) ListEventRegistrations(_ context.Context, eventID string) ([]model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Registration{}
	for _, r := range s.registrations {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListUserRegistrations(_ context.Context, userID string) ([]model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Registration{}
	for _, r := range s.registrations {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// CancelRegistration removes a registration owned by userID.
func (s *MemoryStore) CancelRegistration(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.registrations {
		if r.ID != id {
			continue
		}
		if r.UserID == nil || *r.UserID != userID {
			return ErrForbidden
		}
		s.registrations = append(s.registrations[:i], s.registrations[i+1:]...)
		return nil
	}
	return ErrRegistrationNotFound
}

// ---- club membership ----

func (s *MemoryStore) JoinClub(_ context.Context, clubID, userID string) (*model.ClubMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findClub(clubID) == nil {
		return nil, ErrClubNotFound
	}
	if s.findUser(userID) == nil {
		return nil, ErrUserNotFound
	}
	for _, m := range s.members {
		if m.ClubID == clubID && m.UserID == userID {
			return nil, ErrAlreadyMember
		}
	}
	m := &model.ClubMember{ClubID: clubID, UserID: userID}
	s.stamp(&m.ID, &m.JoinedAt)
	s.members = append(s.members, m)
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) LeaveClub(_ context.Context, clubID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findClub(clubID) == nil {
		return ErrClubNotFound
	}
	kept := s.members[:0]
	removed := false
	for _, m := range s.members {
		if m.ClubID == clubID && m.UserID == userID {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	s.members = kept
	if !removed {
		return ErrNotMember
	}
	return nil
}

func (s *MemoryStore) ListClubMembers(_ context.Context, clubID string) ([]model.ClubMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.findClub(clubID) == nil {
		return nil, ErrClubNotFound
	}
	out := []model.ClubMember{}
	for _, m := range s.members {
		if m.ClubID == clubID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListMemberClubs(_ context.Context, userID string) ([]model.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Club{}
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if c := s.findClub(m.ClubID); c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}
