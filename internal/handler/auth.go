package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/auth"
	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

// AuthHandler creates accounts and logs users in.
type AuthHandler struct {
	Deps
	Issuer     *auth.Issuer
	BcryptCost int
}

// NewAuthHandler returns an AuthHandler.
func NewAuthHandler(d Deps, iss *auth.Issuer, bcryptCost int) *AuthHandler {
	return &AuthHandler{Deps: d.withDefaults(), Issuer: iss, BcryptCost: bcryptCost}
}

type signupReq struct {
	Username string  `json:"username" validate:"required,min=3" msg:"نام کاربری باید حداقل ۳ کاراکتر باشد"`
	Email    string  `json:"email" validate:"required,email" msg:"ایمیل معتبر وارد کنید"`
	Password string  `json:"password" validate:"required,min=6" msg:"رمز عبور باید حداقل ۶ کاراکتر باشد"`
	FullName string  `json:"fullName" validate:"required" msg:"نام و نام خانوادگی الزامی است"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" validate:"omitempty,oneof=user cafe_owner" msg:"نقش کاربری نامعتبر است"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email" msg:"ایمیل معتبر وارد کنید"`
	Password string `json:"password" validate:"required" msg:"رمز عبور الزامی است"`
}

type authResp struct {
	Message string           `json:"message"`
	User    *model.User      `json:"user"`
	Token   auth.AccessToken `json:"token"`
}

// Register creates a member or cafe owner account and returns a token.
// Admin accounts cannot be created through the API.
func (h *AuthHandler) Register(c echo.Context) error {
	var req signupReq
	if err := decodeJSON(c, &req, false); err != nil {
		return invalidInput(c)
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return serverError(c, err, msgSignupFailed)
	}
	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	switch err := h.Store.CreateUser(ctx, u); {
	case err == nil:
	case errors.Is(err, repository.ErrEmailExists):
		return message(c, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, repository.ErrUsernameExists):
		return message(c, http.StatusConflict, msgUsernameTaken)
	default:
		return serverError(c, err, msgSignupFailed)
	}

	tok, err := h.Issuer.Issue(u.ID, u.Role)
	if err != nil {
		return serverError(c, err, msgSignupFailed)
	}
	return c.JSON(http.StatusCreated, authResp{Message: msgSignedUp, User: u, Token: tok})
}

// Login verifies email and password.  Unknown emails and wrong passwords
// get the same 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bind(c, &req); !ok {
		return err
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.Store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return message(c, http.StatusUnauthorized, msgBadCredentials)
	}
	if err != nil {
		return serverError(c, err, msgLoginFailed)
	}
	if u.PasswordHash == "" || !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return message(c, http.StatusUnauthorized, msgBadCredentials)
	}

	tok, err := h.Issuer.Issue(u.ID, u.Role)
	if err != nil {
		return serverError(c, err, msgLoginFailed)
	}
	return c.JSON(http.StatusOK, authResp{Message: msgLoggedIn, User: u, Token: tok})
}
