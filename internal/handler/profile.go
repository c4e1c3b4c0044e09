package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

// ProfileHandler assembles a user's profile page.
type ProfileHandler struct {
	Deps
}

// NewProfileHandler returns a ProfileHandler.
func NewProfileHandler(d Deps) *ProfileHandler {
	return &ProfileHandler{Deps: d.withDefaults()}
}

type profileResp struct {
	User          *model.User                   `json:"user"`
	Registrations []model.RegistrationWithEvent `json:"registrations"`
	JoinedClubs   []model.Club                  `json:"joinedClubs"`
	OwnedClubs    []model.Club                  `json:"ownedClubs"`
}

// Get returns the user with their registrations (each with its event),
// the clubs they joined and the clubs they run.
func (h *ProfileHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Store.GetUser(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrUserNotFound) {
		return message(c, http.StatusNotFound, msgUserNotFound)
	}
	if err != nil {
		return serverError(c, err, msgProfileFailed)
	}

	regs, err := h.Store.ListUserRegistrations(ctx, u.ID)
	if err != nil {
		return serverError(c, err, msgProfileFailed)
	}
	out := profileResp{User: u, Registrations: make([]model.RegistrationWithEvent, 0, len(regs))}
	for _, r := range regs {
		rw := model.RegistrationWithEvent{Registration: r}
		ev, err := h.Store.GetEvent(ctx, r.EventID)
		switch {
		case err == nil:
			rw.Event = ev
		case !errors.Is(err, repository.ErrEventNotFound):
			return serverError(c, err, msgProfileFailed)
		}
		out.Registrations = append(out.Registrations, rw)
	}

	if out.JoinedClubs, err = h.Store.ListMemberClubs(ctx, u.ID); err != nil {
		return serverError(c, err, msgProfileFailed)
	}
	if out.OwnedClubs, err = h.Store.ListClubs(ctx, repository.ClubFilter{OwnerID: u.ID}); err != nil {
		return serverError(c, err, msgProfileFailed)
	}
	return c.JSON(http.StatusOK, out)
}
