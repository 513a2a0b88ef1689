package ollama

import "context"

// UpstreamClient defines the operations the relay needs from the backend.
type UpstreamClient interface {
	// ChatStream sends a streaming chat request. The callback is called for
	// each chunk received.
	ChatStream(ctx context.Context, req *ChatRequest, callback StreamCallback) error

	// ListModels retrieves the list of installed models.
	ListModels(ctx context.Context) ([]Model, error)
}
