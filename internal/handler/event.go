package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/middleware"
	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

// EventHandler serves event listings, search, detail and creation.
type EventHandler struct {
	Deps
}

// NewEventHandler returns an EventHandler.
func NewEventHandler(d Deps) *EventHandler {
	return &EventHandler{Deps: d.withDefaults()}
}

func (h *EventHandler) respondWithCounts(c echo.Context, evs []model.Event, failMsg string) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	counts, err := h.Store.RegistrationCounts(ctx)
	if err != nil {
		return serverError(c, err, failMsg)
	}
	return c.JSON(http.StatusOK, withCounts(evs, counts))
}

// List returns every event, oldest first, each with registrationCount.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	evs, err := h.Store.ListEvents(ctx)
	if err != nil {
		return serverError(c, err, msgListEventsFailed)
	}
	return h.respondWithCounts(c, evs, msgListEventsFailed)
}

// Upcoming returns events whose date is after the request time.
func (h *EventHandler) Upcoming(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	evs, err := h.Store.ListUpcomingEvents(ctx, h.Now())
	if err != nil {
		return serverError(c, err, msgUpcomingFailed)
	}
	return h.respondWithCounts(c, evs, msgUpcomingFailed)
}

type searchQuery struct {
	Query    string `json:"query" validate:"required,min=1" msg:"جستجو نمی‌تواند خالی باشد"`
	Category string `json:"category"`
	District int    `json:"district" validate:"omitempty,min=1,max=22" msg:"منطقه باید بین ۱ تا ۲۲ باشد"`
}

// Search filters events by free text, category and cafe district.  Every
// filter that is set must match.
func (h *EventHandler) Search(c echo.Context) error {
	q := searchQuery{
		Query:    strings.TrimSpace(c.QueryParam("query")),
		Category: strings.TrimSpace(c.QueryParam("category")),
	}
	district, ok := parseDistrict(c)
	if !ok {
		return badDistrict(c)
	}
	q.District = district
	if err := c.Validate(&q); err != nil {
		return validationFailed(c, err)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	evs, err := h.Store.SearchEvents(ctx, repository.EventFilter{Query: q.Query, Category: q.Category, District: q.District})
	if err != nil {
		return serverError(c, err, msgSearchFailed)
	}
	return h.respondWithCounts(c, evs, msgSearchFailed)
}

// Get returns one event with its registrationCount.
func (h *EventHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	ev, err := h.Store.GetEvent(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrEventNotFound) {
		return message(c, http.StatusNotFound, msgEventNotFound)
	}
	if err != nil {
		return serverError(c, err, msgGetEventFailed)
	}
	n, err := h.Store.RegistrationCount(ctx, ev.ID)
	if err != nil {
		return serverError(c, err, msgGetEventFailed)
	}
	return c.JSON(http.StatusOK, model.EventWithCount{Event: *ev, RegistrationCount: n})
}

type createEventReq struct {
	BookTitle   string    `json:"bookTitle" validate:"required" msg:"نام کتاب الزامی است"`
	Author      string    `json:"author" validate:"required" msg:"نام نویسنده الزامی است"`
	Description string    `json:"description" validate:"min=10" msg:"توضیحات باید حداقل ۱۰ کاراکتر باشد"`
	Category    string    `json:"category" validate:"required" msg:"دسته‌بندی الزامی است"`
	Date        time.Time `json:"date" validate:"required" msg:"تاریخ رویداد الزامی است"`
	Time        string    `json:"time" validate:"required" msg:"ساعت رویداد الزامی است"`
	Capacity    int       `json:"capacity" validate:"min=1" msg:"ظرفیت باید حداقل ۱ نفر باشد"`
	ImageURL    *string   `json:"imageUrl" validate:"omitempty,url"`
	ClubID      string    `json:"clubId" validate:"required" msg:"باشگاه الزامی است"`
	CafeID      string    `json:"cafeId" validate:"required" msg:"کافه الزامی است"`
}

// Create adds an event to a club the caller owns.  Admins may create events
// for any club.  The club must meet at the given cafe.
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if ok, err := bind(c, &req); !ok {
		return err
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	club, err := h.Store.GetClub(ctx, req.ClubID)
	if errors.Is(err, repository.ErrClubNotFound) {
		return message(c, http.StatusBadRequest, msgUnknownClubOrCafe)
	}
	if err != nil {
		return serverError(c, err, msgCreateEventFailed)
	}
	if middleware.Role(c) != model.RoleAdmin && club.OwnerID != middleware.UserID(c) {
		return message(c, http.StatusForbidden, msgNotClubOwner)
	}
	if club.CafeID != req.CafeID {
		return message(c, http.StatusBadRequest, msgClubNotAtCafe)
	}

	ev := &model.Event{
		BookTitle:   strings.TrimSpace(req.BookTitle),
		Author:      strings.TrimSpace(req.Author),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Date:        req.Date.UTC(),
		Time:        req.Time,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
		ClubID:      req.ClubID,
		CafeID:      req.CafeID,
	}
	if err := h.Store.CreateEvent(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return message(c, http.StatusBadRequest, msgUnknownClubOrCafe)
		}
		return serverError(c, err, msgCreateEventFailed)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": msgEventCreated,
		"event":   model.EventWithCount{Event: *ev},
	})
}

// Registrations returns the raw registration rows of an event.
func (h *EventHandler) Registrations(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	regs, err := h.Store.ListEventRegistrations(ctx, c.Param("id"))
	if err != nil {
		return serverError(c, err, msgListRegsFailed)
	}
	return c.JSON(http.StatusOK, regs)
}
