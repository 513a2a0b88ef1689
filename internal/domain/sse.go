package domain

// Outward event stream payloads. Each event is encoded as one JSON object on
// a `data:` line followed by a blank line. A stream is: one InitialEvent,
// zero or more DeltaEvents in production order, then exactly one DoneEvent
// or ErrorEvent.

// InitialEvent opens the stream and carries the persisted user message.
type InitialEvent struct {
	UserMessage    *Message `json:"user_message"`
	ConversationID int64    `json:"conversation_id"`
}

// DeltaEvent carries a single content fragment, never the cumulative text.
type DeltaEvent struct {
	Content string `json:"content"`
}

// DoneEvent terminates a successful stream. Message is the persisted
// assistant reply with its assigned id and timestamp, which the client needs
// for later regeneration.
type DoneEvent struct {
	Done    bool     `json:"done"`
	Message *Message `json:"message"`
}

// ErrorEvent terminates a failed stream in place of DoneEvent.
type ErrorEvent struct {
	Error string `json:"error"`
}
