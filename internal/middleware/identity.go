package middleware

// identity.go resolves the JWT subject to a live user record.  Tokens
// outlive account deactivation, so protected routes re-check the database
// on every request: a deactivated user is rejected even with a valid
// token.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

const identityKey = "identity"

// ResolveIdentity loads the active user behind the token subject and
// stores it under the "identity" context key.  Runs after JWTAuth.
func ResolveIdentity(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get("user_id").(uint64)
			if !ok || id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			u, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Distinguish a deactivated account from a subject
					// that never existed.
					if _, anyErr := users.GetAnyByID(c.Request().Context(), id); anyErr == nil {
						return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is not active"})
					}
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}
			c.Set(identityKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the resolved user, or nil outside protected routes.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(identityKey).(*model.User)
	return u
}

// currentUserID renders the authenticated user id for cache and rate
// limit keys.  Anonymous requests share the "anon" bucket.
func currentUserID(c echo.Context) string {
	if id, ok := c.Get("user_id").(uint64); ok && id > 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
