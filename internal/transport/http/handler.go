// Package handler provides HTTP handlers for the wellbeing service.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soluna-app/soluna/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Session lifecycle
	e.GET("/v1/session", h.GetSession)
	e.POST("/v1/session/start", h.StartSession)
	e.POST("/v1/session/new", h.NewSession)
	e.POST("/v1/session/messages", h.SendMessage)
	e.POST("/v1/session/insight", h.GenerateInsight)
	e.POST("/v1/session/scene/rotate", h.RotateScene)

	// History and cards
	e.GET("/v1/sessions/recent", h.RecentSessions)
	e.GET("/v1/sessions/archive", h.ArchivedSessions)
	e.GET("/v1/insights", h.ListInsights)

	// Preferences
	e.GET("/v1/preferences/video", h.GetVideoEnabled)
	e.PUT("/v1/preferences/video", h.SetVideoEnabled)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
