package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/soluna-app/soluna/internal/domain"
)

// GetSession returns the current session view, auto-starting when the
// time-of-day policy calls for it.
// GET /v1/session
func (h *Handler) GetSession(c echo.Context) error {
	id := identityFrom(c)
	view := h.service.View(c.Request().Context(), id)
	return c.JSON(http.StatusOK, view)
}

// StartSession explicitly starts a session.
// POST /v1/session/start
func (h *Handler) StartSession(c echo.Context) error {
	id := identityFrom(c)
	var req struct {
		Type domain.SessionType `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	view := h.service.StartSession(c.Request().Context(), id, req.Type)
	return c.JSON(http.StatusOK, view)
}

// NewSession archives the outgoing session and starts a fresh one.
// POST /v1/session/new
func (h *Handler) NewSession(c echo.Context) error {
	id := identityFrom(c)
	view := h.service.NewSession(c.Request().Context(), id)
	return c.JSON(http.StatusOK, view)
}

// SendMessage appends a user message to the active session.
// POST /v1/session/messages
func (h *Handler) SendMessage(c echo.Context) error {
	id := identityFrom(c)
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.SendMessage(c.Request().Context(), id, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// RotateScene advances or randomizes the background scene.
// POST /v1/session/scene/rotate
func (h *Handler) RotateScene(c echo.Context) error {
	id := identityFrom(c)
	random := c.QueryParam("random") == "true"
	scene := h.service.RotateScene(c.Request().Context(), id, random)
	return c.JSON(http.StatusOK, map[string]string{"scene": string(scene)})
}

// RecentSessions returns session summaries from the backend, newest first.
// GET /v1/sessions/recent
func (h *Handler) RecentSessions(c echo.Context) error {
	id := identityFrom(c)
	limit := 10
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	var sessionType *domain.SessionType
	if t := c.QueryParam("type"); t != "" {
		st := domain.SessionType(t)
		sessionType = &st
	}

	sessions, err := h.service.RecentSessions(c.Request().Context(), id, limit, sessionType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// ArchivedSessions returns the identity's archive list.
// GET /v1/sessions/archive
func (h *Handler) ArchivedSessions(c echo.Context) error {
	id := identityFrom(c)
	archive := h.service.ArchivedSessions(c.Request().Context(), id)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": archive,
	})
}

// GetVideoEnabled returns the video-background preference.
// GET /v1/preferences/video
func (h *Handler) GetVideoEnabled(c echo.Context) error {
	id := identityFrom(c)
	return c.JSON(http.StatusOK, map[string]bool{
		"enabled": h.service.VideoEnabled(c.Request().Context(), id),
	})
}

// SetVideoEnabled stores the video-background preference.
// PUT /v1/preferences/video
func (h *Handler) SetVideoEnabled(c echo.Context) error {
	id := identityFrom(c)
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	h.service.SetVideoEnabled(c.Request().Context(), id, req.Enabled)
	return c.JSON(http.StatusOK, map[string]bool{"enabled": req.Enabled})
}
