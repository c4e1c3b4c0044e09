package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bookclub-cafe/internal/auth"
	"github.com/iliyamo/bookclub-cafe/internal/model"
)

type authBody struct {
	Message string           `json:"message"`
	User    model.User       `json:"user"`
	Token   auth.AccessToken `json:"token"`
}

func TestSignupAndLogin(t *testing.T) {
	api := newTestAPI(t)
	body := map[string]any{
		"username": "neda",
		"email":    " Neda@Example.com ",
		"password": "secret1",
		"fullName": "ندا رضایی",
	}

	rec := api.do(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[authBody](t, rec)
	assert.Equal(t, msgSignedUp, created.Message)
	assert.Equal(t, "neda@example.com", created.User.Email)
	assert.Equal(t, model.RoleUser, created.User.Role)
	assert.NotContains(t, rec.Body.String(), "secret1")

	claims, err := api.iss.Parse(created.Token.Token)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, claims.UserID)

	t.Run("email taken", func(t *testing.T) {
		dup := map[string]any{"username": "other", "email": "NEDA@example.com", "password": "secret1", "fullName": "x"}
		rec := api.do(http.MethodPost, "/api/auth/register", dup, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, msgEmailTaken, decode[errorBody](t, rec).Message)
	})
	t.Run("username taken", func(t *testing.T) {
		dup := map[string]any{"username": "neda", "email": "new@example.com", "password": "secret1", "fullName": "x"}
		rec := api.do(http.MethodPost, "/api/auth/register", dup, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, msgUsernameTaken, decode[errorBody](t, rec).Message)
	})
	t.Run("admin role refused", func(t *testing.T) {
		req := map[string]any{"username": "boss", "email": "boss@example.com", "password": "secret1", "fullName": "x", "role": "admin"}
		rec := api.do(http.MethodPost, "/api/auth/register", req, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"role"}, fields(decode[errorBody](t, rec).Errors))
	})
	t.Run("short fields", func(t *testing.T) {
		req := map[string]any{"username": "ab", "email": "x", "password": "123", "fullName": ""}
		rec := api.do(http.MethodPost, "/api/auth/register", req, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.ElementsMatch(t, []string{"username", "email", "password", "fullName"}, fields(decode[errorBody](t, rec).Errors))
	})

	t.Run("login", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "neda@example.com", "password": "secret1"}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[authBody](t, rec)
		assert.Equal(t, msgLoggedIn, got.Message)
		assert.Equal(t, created.User.ID, got.User.ID)
		assert.NotEmpty(t, got.Token.Token)
	})
	t.Run("wrong password", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "neda@example.com", "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, msgBadCredentials, decode[errorBody](t, rec).Message)
	})
	t.Run("unknown email", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "who@example.com", "password": "secret1"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, msgBadCredentials, decode[errorBody](t, rec).Message)
	})
	t.Run("seeded account without password", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "owner@bookclub.ir", "password": "anything"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSignupCafeOwnerCanCreateCafe(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "cafe-lamiz",
		"email":    "lamiz@example.com",
		"password": "secret1",
		"fullName": "مهدی",
		"role":     model.RoleCafeOwner,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tok := decode[authBody](t, rec).Token.Token

	rec = api.do(http.MethodPost, "/api/cafes", map[string]any{
		"name":     "کافه نشر",
		"district": 12,
		"address":  "تهران، خیابان جمهوری",
	}, tok)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
