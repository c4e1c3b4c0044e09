package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/bookclub-cafe/internal/logging"
	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/queue"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

// RegistrationHandler signs callers up for events and cancels signups.
type RegistrationHandler struct {
	Deps
	Publisher queue.Publisher

	// publishTimeout bounds the background confirmation publish.
	publishTimeout time.Duration
}

// NewRegistrationHandler returns a RegistrationHandler.  A nil publisher
// disables confirmations.
func NewRegistrationHandler(d Deps, p queue.Publisher) *RegistrationHandler {
	if p == nil {
		p = queue.NopPublisher{}
	}
	return &RegistrationHandler{Deps: d.withDefaults(), Publisher: p, publishTimeout: 5 * time.Second}
}

// registerReq is the signup body. eventId is accepted for older clients;
// the path parameter wins.
type registerReq struct {
	FullName string  `json:"fullName" validate:"required" msg:"نام و نام خانوادگی الزامی است"`
	Email    string  `json:"email" validate:"required,email" msg:"ایمیل معتبر وارد کنید"`
	Phone    string  `json:"phone" validate:"min=11" msg:"شماره موبایل معتبر وارد کنید"`
	Notes    *string `json:"notes"`
	UserID   *string `json:"userId"`
	EventID  *string `json:"eventId"`
}

// Register runs the signup checks in a fixed order, stopping at the first
// failure: body shape (400), caller identity (401), event existence (404),
// field rules (400), then the store's duplicate and capacity checks (400).
func (h *RegistrationHandler) Register(c echo.Context) error {
	var req registerReq
	if err := decodeJSON(c, &req, false); err != nil {
		return invalidInput(c)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	uid := callerID(c, req.UserID)
	if uid == "" {
		return message(c, http.StatusUnauthorized, msgLoginFirst)
	}
	if _, err := h.Store.GetUser(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusUnauthorized, msgLoginFirst)
		}
		return serverError(c, err, msgRegisterFailed)
	}

	ev, err := h.Store.GetEvent(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrEventNotFound) {
		return message(c, http.StatusNotFound, msgEventNotFound)
	}
	if err != nil {
		return serverError(c, err, msgRegisterFailed)
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	reg := &model.Registration{
		EventID:  ev.ID,
		UserID:   &uid,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}
	switch err := h.Store.RegisterForEvent(ctx, reg); {
	case err == nil:
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return message(c, http.StatusBadRequest, msgAlreadyRegistered)
	case errors.Is(err, repository.ErrEventFull):
		return message(c, http.StatusBadRequest, msgEventFull)
	case errors.Is(err, repository.ErrEventNotFound):
		return message(c, http.StatusNotFound, msgEventNotFound)
	default:
		return serverError(c, err, msgRegisterFailed)
	}

	h.invalidate(c)
	h.confirm(c, ev, reg)
	return c.JSON(http.StatusCreated, echo.Map{"message": msgRegistered, "registration": reg})
}

// confirm publishes registration.confirmed in the background.  The signup
// is already stored, so a broker failure is only logged.
func (h *RegistrationHandler) confirm(c echo.Context, ev *model.Event, reg *model.Registration) {
	log := logging.FromContext(c.Request().Context())
	msg := queue.RegistrationConfirmedEvent{
		RegistrationID: reg.ID,
		EventID:        ev.ID,
		FullName:       reg.FullName,
		Email:          reg.Email,
		BookTitle:      ev.BookTitle,
		CafeID:         ev.CafeID,
		EventDate:      ev.Date.UTC().Format(time.RFC3339),
		Capacity:       ev.Capacity,
		ConfirmedAt:    reg.CreatedAt.UTC().Format(time.RFC3339),
	}
	if reg.UserID != nil {
		msg.UserID = *reg.UserID
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	if cafe, err := h.Store.GetCafe(ctx, ev.CafeID); err == nil {
		msg.CafeName = cafe.Name
	}
	if n, err := h.Store.RegistrationCount(ctx, ev.ID); err == nil {
		msg.Registered = n
	}

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), h.publishTimeout)
		defer cancel()
		if err := h.Publisher.PublishRegistrationConfirmed(pctx, msg); err != nil {
			log.Warn("registration.confirmed publish failed", zap.String("registration_id", msg.RegistrationID), zap.Error(err))
		}
	}()
}

type cancelReq struct {
	UserID *string `json:"userId"`
}

// Cancel deletes a registration owned by the caller.
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	var req cancelReq
	if err := decodeJSON(c, &req, true); err != nil {
		return invalidInput(c)
	}
	uid := callerID(c, req.UserID)
	if uid == "" {
		return message(c, http.StatusUnauthorized, msgLoginFirst)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	switch err := h.Store.CancelRegistration(ctx, c.Param("id"), uid); {
	case err == nil:
	case errors.Is(err, repository.ErrRegistrationNotFound):
		return message(c, http.StatusNotFound, msgRegistrationNotFound)
	case errors.Is(err, repository.ErrForbidden):
		return message(c, http.StatusForbidden, msgForbidden)
	default:
		return serverError(c, err, msgCancelFailed)
	}
	h.invalidate(c)
	return message(c, http.StatusOK, msgRegistrationCanceled)
}
