package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sgea/academic-events/internal/core/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ctxClaims extracts the auth claims injected by the Auth middleware. A
// missing subject means the middleware did not run for this route.
func ctxClaims(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(domain.Role)
	return userID, role, nil
}

// optionalUserID returns the authenticated user id, or "" for anonymous calls.
func optionalUserID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

// pageParams reads ?page= and ?limit=, clamping them to sane bounds.
func pageParams(c echo.Context) (page, limit int, err error) {
	page, limit = 1, defaultLimit
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError(); err != nil {
		return 0, 0, domain.NewFieldError("page", "page and limit must be integers")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
