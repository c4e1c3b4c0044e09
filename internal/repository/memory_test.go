package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bookclub-cafe/internal/model"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newSeededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	s.now = func() time.Time { return testNow }
	require.NoError(t, Seed(context.Background(), s, testNow))
	return s
}

func addUser(t *testing.T, s Store, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", FullName: username}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func registration(eventID, email string) *model.Registration {
	return &model.Registration{EventID: eventID, FullName: "مریم احمدی", Email: email, Phone: "09121234567"}
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, s, testNow))

	evs, err := s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, evs, 4)

	cafes, err := s.ListCafes(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, cafes, 2)
}

func TestListEventsSortedByDate(t *testing.T) {
	s := newSeededStore(t)
	evs, err := s.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, evs, 4)
	for i := 1; i < len(evs); i++ {
		assert.False(t, evs[i].Date.Before(evs[i-1].Date), "events out of order at %d", i)
	}
	assert.Equal(t, "4", evs[0].ID, "past event comes first")
}

func TestListUpcomingExcludesPast(t *testing.T) {
	s := newSeededStore(t)
	evs, err := s.ListUpcomingEvents(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	for _, e := range evs {
		assert.True(t, e.Date.After(testNow), "event %s is not upcoming", e.ID)
	}
}

func TestGetEventMissing(t *testing.T) {
	s := newSeededStore(t)
	_, err := s.GetEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetEventReturnsCopy(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	e, err := s.GetEvent(ctx, "1")
	require.NoError(t, err)
	e.Capacity = 999

	again, err := s.GetEvent(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 12, again.Capacity)
}

func TestSearchEvents(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		f    EventFilter
		want []string
	}{
		{"title", EventFilter{Query: "بوف"}, []string{"1"}},
		{"author", EventFilter{Query: "شاملو"}, []string{"2"}},
		{"description", EventFilter{Query: "جامعه"}, []string{"1", "3"}},
		{"category only", EventFilter{Category: "رمان کلاسیک"}, []string{"4", "1"}},
		{"query and category", EventFilter{Query: "هدایت", Category: "شعر معاصر"}, nil},
		{"district", EventFilter{District: 3}, []string{"2"}},
		{"query and district", EventFilter{Query: "جامعه", District: 6}, []string{"1", "3"}},
		{"no filters", EventFilter{}, []string{"4", "1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs, err := s.SearchEvents(ctx, tt.f)
			require.NoError(t, err)
			var ids []string
			for _, e := range evs {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchEventsCaseInsensitive(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateEvent(ctx, &model.Event{
		ID: "en", BookTitle: "The Little Prince", Author: "Saint-Exupéry", Category: "ترجمه",
		Date: testNow.Add(48 * time.Hour), Capacity: 5, ClubID: SeedClubID1, CafeID: SeedCafeID1,
	}))
	evs, err := s.SearchEvents(ctx, EventFilter{Query: "little PRINCE"})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "en", evs[0].ID)
}

func TestCreateEventRejectsUnknownReferences(t *testing.T) {
	s := newSeededStore(t)
	err := s.CreateEvent(context.Background(), &model.Event{BookTitle: "x", Capacity: 1, ClubID: "ghost", CafeID: SeedCafeID1})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestRegistrationCountMatchesRows(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RegisterForEvent(ctx, registration("1", fmt.Sprintf("r%d@x.com", i))))
	}
	require.NoError(t, s.RegisterForEvent(ctx, registration("2", "r0@x.com")))

	counts, err := s.RegistrationCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 3, "2": 1}, counts)

	n, err := s.RegistrationCount(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := s.ListEventRegistrations(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, rows, n)
}

func TestRegisterForEventRejectsWhenFull(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		require.NoError(t, s.RegisterForEvent(ctx, registration("1", fmt.Sprintf("u%d@x.com", i))))
	}

	err := s.RegisterForEvent(ctx, registration("1", "late@x.com"))
	assert.ErrorIs(t, err, ErrEventFull)

	n, err := s.RegistrationCount(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestRegisterForEventDuplicateBeforeCapacity(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, s.RegisterForEvent(ctx, registration("1", "a@x.com")))
	err := s.RegisterForEvent(ctx, registration("1", "A@X.com "))
	assert.ErrorIs(t, err, ErrAlreadyRegistered, "duplicate while capacity remains")

	for i := 1; i < 12; i++ {
		require.NoError(t, s.RegisterForEvent(ctx, registration("1", fmt.Sprintf("u%d@x.com", i))))
	}
	err = s.RegisterForEvent(ctx, registration("1", "a@x.com"))
	assert.ErrorIs(t, err, ErrAlreadyRegistered, "duplicate on a full event")
}

func TestRegisterForEventUnknownEvent(t *testing.T) {
	s := newSeededStore(t)
	err := s.RegisterForEvent(context.Background(), registration("ghost", "a@x.com"))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterForEventConcurrentLastSlots(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	const attempts = 40
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- s.RegisterForEvent(ctx, registration("2", fmt.Sprintf("c%d@x.com", i)))
		}(i)
	}
	wg.Wait()
	close(results)

	ok, full := 0, 0
	for err := range results {
		switch err {
		case nil:
			ok++
		case ErrEventFull:
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 10, ok)
	assert.Equal(t, attempts-10, full)

	n, err := s.RegistrationCount(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestCreateRegistrationSkipsCapacity(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	for i := 0; i < 11; i++ {
		require.NoError(t, s.CreateRegistration(ctx, registration("2", fmt.Sprintf("x%d@x.com", i))))
	}
	n, err := s.RegistrationCount(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	err = s.CreateRegistration(ctx, registration("2", "x0@x.com"))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestIsUserRegistered(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, s.RegisterForEvent(ctx, registration("3", "Reader@Example.com")))

	ok, err := s.IsUserRegistered(ctx, "3", "reader@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsUserRegistered(ctx, "1", "reader@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistrationUserReference(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	ghost := "ghost"
	r := registration("1", "g@x.com")
	r.UserID = &ghost
	assert.ErrorIs(t, s.RegisterForEvent(ctx, r), ErrInvalidReference)
}

func TestCancelRegistrationFreesSlot(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	owner := addUser(t, s, "sara")
	other := addUser(t, s, "reza")

	var mine *model.Registration
	for i := 0; i < 10; i++ {
		r := registration("2", fmt.Sprintf("p%d@x.com", i))
		if i == 0 {
			r.UserID = &owner.ID
			mine = r
		}
		require.NoError(t, s.RegisterForEvent(ctx, r))
	}
	require.ErrorIs(t, s.RegisterForEvent(ctx, registration("2", "wait@x.com")), ErrEventFull)

	assert.ErrorIs(t, s.CancelRegistration(ctx, mine.ID, other.ID), ErrForbidden)
	assert.ErrorIs(t, s.CancelRegistration(ctx, "missing", owner.ID), ErrRegistrationNotFound)
	require.NoError(t, s.CancelRegistration(ctx, mine.ID, owner.ID))

	assert.NoError(t, s.RegisterForEvent(ctx, registration("2", "wait@x.com")))
}

func TestListUserRegistrations(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	u := addUser(t, s, "neda")
	for _, id := range []string{"1", "3"} {
		r := registration(id, "neda@example.com")
		r.UserID = &u.ID
		require.NoError(t, s.RegisterForEvent(ctx, r))
	}
	require.NoError(t, s.RegisterForEvent(ctx, registration("2", "neda@example.com")))

	rows, err := s.ListUserRegistrations(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCreateUserUniqueness(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	addUser(t, s, "ali")

	err := s.CreateUser(ctx, &model.User{Username: "other", Email: "ALI@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	err = s.CreateUser(ctx, &model.User{Username: "Ali", Email: "fresh@example.com"})
	assert.ErrorIs(t, err, ErrUsernameExists)

	u, err := s.GetUserByEmail(ctx, " Ali@Example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClubMembership(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	u := addUser(t, s, "kimia")

	m, err := s.JoinClub(ctx, SeedClubID1, u.ID)
	require.NoError(t, err)
	assert.Equal(t, testNow, m.JoinedAt)

	_, err = s.JoinClub(ctx, SeedClubID1, u.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = s.JoinClub(ctx, "ghost", u.ID)
	assert.ErrorIs(t, err, ErrClubNotFound)

	_, err = s.JoinClub(ctx, SeedClubID2, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	clubs, err := s.ListMemberClubs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, SeedClubID1, clubs[0].ID)

	members, err := s.ListClubMembers(ctx, SeedClubID1)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, s.LeaveClub(ctx, SeedClubID1, u.ID))
	assert.ErrorIs(t, s.LeaveClub(ctx, SeedClubID1, u.ID), ErrNotMember)

	members, err = s.ListClubMembers(ctx, SeedClubID1)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestListClubsFilter(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateClub(ctx, &model.Club{
		Name: "تعطیل", CafeID: SeedCafeID1, OwnerID: SeedOwnerID, IsActive: false,
	}))

	all, err := s.ListClubs(ctx, ClubFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := s.ListClubs(ctx, ClubFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	atCafe1, err := s.ListClubs(ctx, ClubFilter{CafeID: SeedCafeID1, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, atCafe1, 1)
	assert.Equal(t, SeedClubID1, atCafe1[0].ID)

	err = s.CreateClub(ctx, &model.Club{Name: "x", CafeID: "ghost", OwnerID: SeedOwnerID})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestListClubEvents(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	evs, err := s.ListClubEvents(ctx, SeedClubID1)
	require.NoError(t, err)
	assert.Len(t, evs, 3)

	_, err = s.ListClubEvents(ctx, "ghost")
	assert.ErrorIs(t, err, ErrClubNotFound)
}

func TestListCafesByDistrict(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	cafes, err := s.ListCafes(ctx, 6)
	require.NoError(t, err)
	require.Len(t, cafes, 1)
	assert.Equal(t, SeedCafeID1, cafes[0].ID)

	ghost := "ghost"
	err = s.CreateCafe(ctx, &model.Cafe{Name: "x", District: 1, OwnerID: &ghost})
	assert.ErrorIs(t, err, ErrInvalidReference)
}
