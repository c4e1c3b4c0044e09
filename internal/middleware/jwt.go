package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/auth"
)

// Context keys set by the JWT middlewares.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

const (
	msgLoginRequired = "برای این عملیات باید وارد حساب کاربری شوید"
	msgInvalidToken  = "توکن ورود نامعتبر یا منقضی شده است"
	msgForbidden     = "شما اجازه‌ی انجام این عملیات را ندارید"
)

func bearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return raw, raw != ""
}

// JWTAuth rejects requests without a valid bearer token and stores the
// token's subject and role under "user_id" and "role".
func JWTAuth(iss *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": msgLoginRequired})
			}
			claims, err := iss.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": msgInvalidToken})
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// OptionalJWT is JWTAuth for routes that also accept anonymous callers.
// A missing header passes through; a present but invalid token is still
// rejected.
func OptionalJWT(iss *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return next(c)
			}
			claims, err := iss.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": msgInvalidToken})
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}
