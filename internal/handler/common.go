// Package handler exposes the HTTP handlers of the book club API.  Each
// handler group holds the store and the collaborators it needs; main builds
// them once and the router mounts their methods.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/bookclub-cafe/internal/logging"
	"github.com/iliyamo/bookclub-cafe/internal/middleware"
	"github.com/iliyamo/bookclub-cafe/internal/model"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
)

const maxBodyBytes = 1 << 20

// Invalidator retires cached GET responses after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) error { return nil }

// Deps are the collaborators shared by every handler group.
type Deps struct {
	Store   repository.Store
	Cache   Invalidator
	Timeout time.Duration
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = nopInvalidator{}
	}
	if d.Timeout <= 0 {
		d.Timeout = 5 * time.Second
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

func (d Deps) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d.Timeout)
}

// invalidate bumps the cache generation; a failure only costs freshness
// until the entries expire.
func (d Deps) invalidate(c echo.Context) {
	if err := d.Cache.Invalidate(c.Request().Context()); err != nil {
		logging.FromContext(c.Request().Context()).Warn("cache invalidation failed", zap.Error(err))
	}
}

// errMalformed marks a body that is not JSON of the declared shape.
var errMalformed = errors.New("malformed request body")

// decodeJSON reads exactly one JSON value into dst, rejecting unknown
// fields and trailing data.  An empty body is accepted when allowEmpty is
// set.
func decodeJSON(c echo.Context, dst any, allowEmpty bool) error {
	r := c.Request()
	r.Body = http.MaxBytesReader(c.Response(), r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", errMalformed)
	}
	return nil
}

// bind decodes and validates a request body.  It writes the 400 response
// itself and returns false when the request must stop.
func bind(c echo.Context, dst any) (bool, error) {
	if err := decodeJSON(c, dst, false); err != nil {
		return false, invalidInput(c)
	}
	if err := c.Validate(dst); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

func invalidInput(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msgInvalidInput})
}

func validationFailed(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgInvalidInput, "errors": ve.Fields})
	}
	return invalidInput(c)
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// serverError logs err with the request-scoped logger and answers 500.
func serverError(c echo.Context, err error, msg string) error {
	logging.FromContext(c.Request().Context()).Error(msg, zap.Error(err),
		zap.String("method", c.Request().Method), zap.String("path", c.Path()))
	return message(c, http.StatusInternalServerError, msg)
}

// callerID resolves who is acting: the bearer token subject when present,
// otherwise the userId supplied by the client.
func callerID(c echo.Context, bodyUserID *string) string {
	if id := middleware.UserID(c); id != "" {
		return id
	}
	if bodyUserID != nil {
		return *bodyUserID
	}
	return ""
}

// withCounts attaches registrationCount to each event.
func withCounts(evs []model.Event, counts map[string]int) []model.EventWithCount {
	out := make([]model.EventWithCount, 0, len(evs))
	for _, e := range evs {
		out = append(out, model.EventWithCount{Event: e, RegistrationCount: counts[e.ID]})
	}
	return out
}

// ErrorHandler renders errors that escape handlers in the API's
// {message} shape.  echo.HTTPError keeps its status; anything else is a 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := msgServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
			msg = s
		}
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, echo.Map{"message": msg})
}
