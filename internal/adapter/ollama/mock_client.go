package ollama

import "context"

// MockClient is a scripted implementation of UpstreamClient for testing.
type MockClient struct {
	// Chunks are delivered to the callback in order.
	Chunks []ChatChunk
	// Err, when set, is returned instead of streaming any chunks.
	Err error
	// Models is returned by ListModels.
	Models []Model

	// LastRequest records the most recent ChatStream request.
	LastRequest *ChatRequest
}

// Ensure MockClient implements UpstreamClient.
var _ UpstreamClient = (*MockClient)(nil)

// ChatStream replays the scripted chunks.
func (m *MockClient) ChatStream(ctx context.Context, req *ChatRequest, callback StreamCallback) error {
	m.LastRequest = req
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Chunks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := callback(&m.Chunks[i]); err != nil {
			return err
		}
		if m.Chunks[i].Done {
			return nil
		}
	}
	return nil
}

// ListModels returns the scripted model list.
func (m *MockClient) ListModels(ctx context.Context) ([]Model, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Models, nil
}
