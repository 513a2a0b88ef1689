// Package v1 implements the chat relay's HTTP API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/service"
)

// Handler handles API requests.
type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)

	api := e.Group("/api")
	api.POST("/chat", h.handleChat)
	api.POST("/regenerate", h.handleRegenerate)
	api.GET("/conversations", h.handleListConversations)
	api.GET("/conversations/:id/messages", h.handleListMessages)
	api.PUT("/conversations/:id/title", h.handleUpdateTitle)
	api.DELETE("/conversations/:id", h.handleDeleteConversation)
	api.GET("/models", h.handleListModels)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// requestError maps service errors detected before streaming begins to JSON
// error responses.
func (h *Handler) requestError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPolicyBlocked):
		return c.JSON(http.StatusForbidden, domain.ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "internal error"})
	}
}
