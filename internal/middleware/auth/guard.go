package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/emgimbal/shop/internal/models"
	"github.com/emgimbal/shop/internal/token"
)

const identityKey = "userEmail"

// Guard gates protected routes: RequireToken authenticates the bearer token,
// RequireAdmin additionally checks the caller's stored role. RequireAdmin
// must be registered behind RequireToken.
type Guard struct {
	DB     *gorm.DB
	Tokens *token.Service
}

// RequireToken distinguishes a missing credential (401) from a credential
// that does not verify (403).
func (g *Guard) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header || raw == "" {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}

		email, err := g.Tokens.Verify(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}

		SetIdentity(c, email)
		return next(c)
	}
}

// RequireAdmin looks the caller up on every request. Roles can change
// between requests, so the result is never cached.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := IdentityEmail(c)
		if email == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
		}

		var requester models.User
		if err := g.DB.Where("email = ?", email).First(&requester).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if requester.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}

		return next(c)
	}
}

// SetIdentity stores the authenticated email on the request context.
func SetIdentity(c echo.Context, email string) {
	c.Set(identityKey, email)
}

// IdentityEmail returns the authenticated email set by RequireToken, or ""
// on an unauthenticated request.
func IdentityEmail(c echo.Context) string {
	if v, ok := c.Get(identityKey).(string); ok {
		return v
	}
	return ""
}
