package domain

// ChatRequest is the inbound chat request. ConversationID is nil on the
// first turn; the conversation is created lazily.
type ChatRequest struct {
	Prompt         string `json:"prompt"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Model          string `json:"model"`
}

// RegenerateRequest rewinds a conversation to the referenced user message
// and re-runs generation with an edited prompt.
type RegenerateRequest struct {
	MessageID int64  `json:"message_id"`
	NewPrompt string `json:"new_prompt"`
	Model     string `json:"model"`
}

// TitleUpdateRequest renames a conversation.
type TitleUpdateRequest struct {
	Title string `json:"title"`
}

// ErrorResponse is the JSON body for request failures detected before
// streaming begins.
type ErrorResponse struct {
	Error string `json:"error"`
}
