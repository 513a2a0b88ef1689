package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/service"
)

// handleChat accepts a prompt, persists the user message, then streams the
// generated reply as server-sent events. Errors detected before the first
// event are plain JSON responses; everything after is delivered in-stream.
func (h *Handler) handleChat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.Prompt == "" || req.Model == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "prompt and model are required"})
	}

	turn, err := h.service.Chat(c.Request().Context(), req)
	if err != nil {
		return h.requestError(c, err)
	}
	return h.stream(c, turn, req.Model)
}

// handleRegenerate rewinds the conversation to the referenced user message
// and streams a fresh reply for the edited prompt.
func (h *Handler) handleRegenerate(c echo.Context) error {
	var req domain.RegenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}
	if req.MessageID <= 0 || req.NewPrompt == "" || req.Model == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "message_id, new_prompt and model are required"})
	}

	turn, err := h.service.Regenerate(c.Request().Context(), req)
	if err != nil {
		return h.requestError(c, err)
	}
	return h.stream(c, turn, req.Model)
}

// stream writes the SSE response for one generation turn: the initial event
// with the persisted user message, then the relay's deltas and terminal
// event. Once streaming has begun all failures are in-stream; the handler
// itself never returns an error past this point.
func (h *Handler) stream(c echo.Context, turn *service.Turn, model string) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	emit := func(event any) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return err
		}
		res.Flush()
		return nil
	}

	if err := emit(domain.InitialEvent{
		UserMessage:    turn.UserMessage,
		ConversationID: turn.Conversation.ID,
	}); err != nil {
		return nil
	}

	if err := h.service.StreamReply(c.Request().Context(), turn.Conversation.ID, model, emit); err != nil {
		// Already reported in-stream where possible; just record it.
		h.logger.Warn("stream ended with error",
			zap.Int64("conversation_id", turn.Conversation.ID),
			zap.Error(err))
	}
	return nil
}
