package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
)

func (h *Handler) handleListConversations(c echo.Context) error {
	convs, err := h.service.ListConversations(c.Request().Context())
	if err != nil {
		return h.requestError(c, err)
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	return c.JSON(http.StatusOK, convs)
}

func (h *Handler) handleListMessages(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid conversation id"})
	}

	msgs, err := h.service.ListMessages(c.Request().Context(), id)
	if err != nil {
		return h.requestError(c, err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *Handler) handleUpdateTitle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid conversation id"})
	}

	var req domain.TitleUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "title is required"})
	}

	conv, err := h.service.RenameConversation(c.Request().Context(), id, req.Title)
	if err != nil {
		return h.requestError(c, err)
	}
	return c.JSON(http.StatusOK, conv)
}

func (h *Handler) handleDeleteConversation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid conversation id"})
	}

	if err := h.service.DeleteConversation(c.Request().Context(), id); err != nil {
		return h.requestError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
