package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

func (s *MemoryStore) ListEvents(_ context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectEvents(func(*model.Event) bool { return true }), nil
}

// ListUpcomingEvents returns events strictly after now.
func (s *MemoryStore) ListUpcomingEvents(_ context.Context, now time.Time) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectEvents(func(e *model.Event) bool { return e.Date.After(now) }), nil
}

func (s *MemoryStore) ListClubEvents(_ context.Context, clubID string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.findClub(clubID) == nil {
		return nil, ErrClubNotFound
	}
	return s.collectEvents(func(e *model.Event) bool { return e.ClubID == clubID }), nil
}

// SearchEvents matches Query case-insensitively against title, author and
// description, then intersects with the exact category and the hosting
// cafe's district when those are set.
func (s *MemoryStore) SearchEvents(_ context.Context, f EventFilter) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return s.collectEvents(func(e *model.Event) bool {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.BookTitle), q) &&
			!strings.Contains(strings.ToLower(e.Author), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) {
			return false
		}
		if f.Category != "" && e.Category != f.Category {
			return false
		}
		if f.District != 0 {
			c := s.findCafe(e.CafeID)
			if c == nil || c.District != f.District {
				return false
			}
		}
		return true
	}), nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e := s.findEvent(id); e != nil {
		cp := *e
		return &cp, nil
	}
	return nil, ErrEventNotFound
}

func (s *MemoryStore) CreateEvent(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findClub(e.ClubID) == nil || s.findCafe(e.CafeID) == nil {
		return ErrInvalidReference
	}
	s.stamp(&e.ID, &e.CreatedAt)
	cp := *e
	s.events = append(s.events, &cp)
	return nil
}

func (s *MemoryStore) findEvent(id string) *model.Event {
	for _, e := range s.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// collectEvents copies matching events and sorts them by date.  The caller
// holds the lock.
func (s *MemoryStore) collectEvents(keep func(*model.Event) bool) []model.Event {
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sortEvents(out)
	return out
}
