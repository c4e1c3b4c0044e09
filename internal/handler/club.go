package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/middleware"
	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

// ClubHandler serves clubs, their events and their members.
type ClubHandler struct {
	Deps
}

// NewClubHandler returns a ClubHandler.
func NewClubHandler(d Deps) *ClubHandler {
	return &ClubHandler{Deps: d.withDefaults()}
}

// List filters clubs by cafeId, ownerId and active.
func (h *ClubHandler) List(c echo.Context) error {
	f := repository.ClubFilter{
		CafeID:  strings.TrimSpace(c.QueryParam("cafeId")),
		OwnerID: strings.TrimSpace(c.QueryParam("ownerId")),
	}
	if raw := strings.TrimSpace(c.QueryParam("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"message": msgInvalidInput,
				"errors":  []FieldError{{Field: "active", Message: msgInvalidActiveFilter}},
			})
		}
		f.ActiveOnly = active
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	clubs, err := h.Store.ListClubs(ctx, f)
	if err != nil {
		return serverError(c, err, msgListClubsFailed)
	}
	return c.JSON(http.StatusOK, clubs)
}

// Get returns one club.
func (h *ClubHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	club, err := h.Store.GetClub(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrClubNotFound) {
		return message(c, http.StatusNotFound, msgClubNotFound)
	}
	if err != nil {
		return serverError(c, err, msgListClubsFailed)
	}
	return c.JSON(http.StatusOK, club)
}

type createClubReq struct {
	Name        string  `json:"name" validate:"required,min=2" msg:"نام باشگاه باید حداقل ۲ کاراکتر باشد"`
	Description string  `json:"description" validate:"min=10" msg:"توضیحات باید حداقل ۱۰ کاراکتر باشد"`
	CafeID      string  `json:"cafeId" validate:"required" msg:"کافه الزامی است"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
}

// Create starts a club at a cafe, owned by the caller.  Only the cafe's
// owner or an admin may host a club there.
func (h *ClubHandler) Create(c echo.Context) error {
	var req createClubReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	uid := middleware.UserID(c)

	ctx, cancel := h.ctx(c)
	defer cancel()
	cafe, err := h.Store.GetCafe(ctx, req.CafeID)
	if errors.Is(err, repository.ErrCafeNotFound) {
		return message(c, http.StatusBadRequest, msgUnknownClubOrCafe)
	}
	if err != nil {
		return serverError(c, err, msgCreateClubFailed)
	}
	if middleware.Role(c) != model.RoleAdmin && (cafe.OwnerID == nil || *cafe.OwnerID != uid) {
		return message(c, http.StatusForbidden, msgForbidden)
	}

	club := &model.Club{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CafeID:      cafe.ID,
		OwnerID:     uid,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := h.Store.CreateClub(ctx, club); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return message(c, http.StatusBadRequest, msgUnknownClubOrCafe)
		}
		return serverError(c, err, msgCreateClubFailed)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"message": msgClubCreated, "club": club})
}

// Events returns the club's sessions with registrationCount.
func (h *ClubHandler) Events(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	evs, err := h.Store.ListClubEvents(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrClubNotFound) {
		return message(c, http.StatusNotFound, msgClubNotFound)
	}
	if err != nil {
		return serverError(c, err, msgListEventsFailed)
	}
	counts, err := h.Store.RegistrationCounts(ctx)
	if err != nil {
		return serverError(c, err, msgListEventsFailed)
	}
	return c.JSON(http.StatusOK, withCounts(evs, counts))
}

// Members lists the membership rows of a club.
func (h *ClubHandler) Members(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	members, err := h.Store.ListClubMembers(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrClubNotFound) {
		return message(c, http.StatusNotFound, msgClubNotFound)
	}
	if err != nil {
		return serverError(c, err, msgListMembersFailed)
	}
	return c.JSON(http.StatusOK, members)
}

type membershipReq struct {
	UserID *string `json:"userId"`
}

func (h *ClubHandler) member(c echo.Context) (string, bool, error) {
	var req membershipReq
	if err := decodeJSON(c, &req, true); err != nil {
		return "", false, invalidInput(c)
	}
	uid := callerID(c, req.UserID)
	if uid == "" {
		return "", false, message(c, http.StatusUnauthorized, msgMemberLogin)
	}
	return uid, true, nil
}

// Join adds the caller to the club.
func (h *ClubHandler) Join(c echo.Context) error {
	uid, ok, err := h.member(c)
	if !ok {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	m, err := h.Store.JoinClub(ctx, c.Param("id"), uid)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrClubNotFound):
		return message(c, http.StatusNotFound, msgClubNotFound)
	case errors.Is(err, repository.ErrUserNotFound):
		return message(c, http.StatusUnauthorized, msgMemberLogin)
	case errors.Is(err, repository.ErrAlreadyMember):
		return message(c, http.StatusConflict, msgAlreadyMember)
	default:
		return serverError(c, err, msgMembershipFailed)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"message": msgJoinedClub, "member": m})
}

// Leave removes the caller from the club.
func (h *ClubHandler) Leave(c echo.Context) error {
	uid, ok, err := h.member(c)
	if !ok {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	switch err := h.Store.LeaveClub(ctx, c.Param("id"), uid); {
	case err == nil:
	case errors.Is(err, repository.ErrClubNotFound):
		return message(c, http.StatusNotFound, msgClubNotFound)
	case errors.Is(err, repository.ErrNotMember):
		return message(c, http.StatusNotFound, msgNotMember)
	default:
		return serverError(c, err, msgMembershipFailed)
	}
	h.invalidate(c)
	return message(c, http.StatusOK, msgLeftClub)
}
