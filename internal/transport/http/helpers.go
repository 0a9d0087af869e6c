package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/soluna-app/soluna/internal/domain"
)

// identityFrom builds the acting identity from request headers. A missing
// user id yields a guest identity keyed by the echo request id so anonymous
// visitors still get a session-scoped store.
func identityFrom(c echo.Context) domain.Identity {
	id := domain.Identity{
		UserID: c.Request().Header.Get("X-User-ID"),
		Tier:   domain.Tier(c.Request().Header.Get("X-Tier")),
		Name:   c.Request().Header.Get("X-User-Name"),
	}
	if id.UserID == "" {
		id.UserID = "guest_" + c.Response().Header().Get(echo.HeaderXRequestID)
		id.Guest = true
	}
	if c.Request().Header.Get("X-Guest") == "true" {
		id.Guest = true
	}
	id.Registered = !id.Guest
	if id.Tier != domain.TierPro {
		id.Tier = domain.TierFree
	}
	return id
}
