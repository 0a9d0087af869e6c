package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soluna-app/soluna/internal/service"
	"github.com/soluna-app/soluna/internal/store"
)

// GenerateInsight triggers insight generation for the active session.
// POST /v1/session/insight
func (h *Handler) GenerateInsight(c echo.Context) error {
	id := identityFrom(c)

	card, err := h.service.GenerateInsight(c.Request().Context(), id)
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrStaleInsight):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, card)
}

// ListInsights returns the identity's insight cards.
// GET /v1/insights
func (h *Handler) ListInsights(c echo.Context) error {
	id := identityFrom(c)
	cards := h.service.InsightCards(c.Request().Context(), id)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"insights": cards,
	})
}
