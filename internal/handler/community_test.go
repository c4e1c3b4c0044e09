package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

func TestListCafes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/cafes", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Cafe](t, rec), 2)

	rec = api.do(http.MethodGet, "/api/cafes?district=6", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cafes := decode[[]model.Cafe](t, rec)
	require.Len(t, cafes, 1)
	assert.Equal(t, repository.SeedCafeID1, cafes[0].ID)

	rec = api.do(http.MethodGet, "/api/cafes?district=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/cafes/"+repository.SeedCafeID2, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[model.Cafe](t, rec).District)

	rec = api.do(http.MethodGet, "/api/cafes/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgCafeNotFound, decode[errorBody](t, rec).Message)
}

func TestCreateCafe(t *testing.T) {
	api := newTestAPI(t)
	api.addUser(t, "o1", model.RoleCafeOwner)
	tok := api.token(t, "o1", model.RoleCafeOwner)

	rec := api.do(http.MethodPost, "/api/cafes", map[string]any{"name": "x", "district": 30, "address": "کوتاه"}, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Subset(t, fields(decode[errorBody](t, rec).Errors), []string{"name", "district"})

	rec = api.do(http.MethodPost, "/api/cafes", map[string]any{"name": "کافه گلستان", "district": 1, "address": "تهران، میدان تجریش"}, tok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[struct {
		Cafe model.Cafe `json:"cafe"`
	}](t, rec)
	require.NotNil(t, resp.Cafe.OwnerID)
	assert.Equal(t, "o1", *resp.Cafe.OwnerID)

	rec = api.do(http.MethodPost, "/api/cafes", map[string]any{"name": "کافه", "district": 1, "address": "تهران، میدان تجریش"}, api.token(t, "o1", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListClubs(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		target string
		status int
		n      int
	}{
		{"/api/clubs", http.StatusOK, 2},
		{"/api/clubs?cafeId=" + repository.SeedCafeID1, http.StatusOK, 1},
		{"/api/clubs?ownerId=" + repository.SeedOwnerID + "&active=true", http.StatusOK, 2},
		{"/api/clubs?ownerId=someone-else", http.StatusOK, 0},
		{"/api/clubs?active=maybe", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := api.do(http.MethodGet, tt.target, nil, "")
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Len(t, decode[[]model.Club](t, rec), tt.n)
			}
		})
	}

	rec := api.do(http.MethodGet, "/api/clubs/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClubEvents(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/clubs/"+repository.SeedClubID1+"/events", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"4", "1", "3"}, eventIDs(decode[[]model.EventWithCount](t, rec)))

	rec = api.do(http.MethodGet, "/api/clubs/nope/events", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateClub(t *testing.T) {
	api := newTestAPI(t)
	api.addUser(t, "o1", model.RoleCafeOwner)
	tok := api.token(t, "o1", model.RoleCafeOwner)
	body := map[string]any{
		"name":        "حلقه‌ی داستان کوتاه",
		"description": "خوانش داستان‌های کوتاه معاصر",
		"cafeId":      repository.SeedCafeID1,
	}

	rec := api.do(http.MethodPost, "/api/clubs", body, tok)
	assert.Equal(t, http.StatusForbidden, rec.Code, "o1 does not own the seeded cafe")

	rec = api.do(http.MethodPost, "/api/clubs", map[string]any{"name": "n", "description": "d", "cafeId": "nope"}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/clubs", body, api.token(t, repository.SeedOwnerID, model.RoleAdmin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	club := decode[struct {
		Club model.Club `json:"club"`
	}](t, rec).Club
	assert.True(t, club.IsActive)
	assert.Equal(t, repository.SeedOwnerID, club.OwnerID)
}

func TestClubMembership(t *testing.T) {
	api := newTestAPI(t)
	api.addUser(t, "u1", model.RoleUser)
	path := "/api/clubs/" + repository.SeedClubID2 + "/members"
	as := map[string]any{"userId": "u1"}

	rec := api.do(http.MethodPost, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, path, map[string]any{"userId": "ghost"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/clubs/nope/members", as, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, path, as, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, msgJoinedClub, decode[errorBody](t, rec).Message)

	rec = api.do(http.MethodPost, path, "", api.token(t, "u1", model.RoleUser))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, msgAlreadyMember, decode[errorBody](t, rec).Message)

	rec = api.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[[]model.ClubMember](t, rec)
	require.Len(t, members, 1)
	assert.Equal(t, "u1", members[0].UserID)

	rec = api.do(http.MethodDelete, path, as, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, path, as, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotMember, decode[errorBody](t, rec).Message)
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)
	api.addUser(t, "u1", model.RoleUser)

	rec := api.do(http.MethodPost, "/api/events/1/register", signup("u1", "u1@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = api.do(http.MethodPost, "/api/clubs/"+repository.SeedClubID1+"/members", map[string]any{"userId": "u1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/api/users/u1/profile", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[profileResp](t, rec)
	assert.Equal(t, "u1", p.User.ID)
	require.Len(t, p.Registrations, 1)
	require.NotNil(t, p.Registrations[0].Event)
	assert.Equal(t, "بوف کور", p.Registrations[0].Event.BookTitle)
	require.Len(t, p.JoinedClubs, 1)
	assert.Equal(t, repository.SeedClubID1, p.JoinedClubs[0].ID)
	assert.Empty(t, p.OwnedClubs)

	rec = api.do(http.MethodGet, "/api/users/"+repository.SeedOwnerID+"/profile", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[profileResp](t, rec).OwnedClubs, 2)

	rec = api.do(http.MethodGet, "/api/users/nope/profile", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
