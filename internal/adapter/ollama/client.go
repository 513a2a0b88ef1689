// Package ollama provides the HTTP client for the Ollama generation backend.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatMessage is one turn submitted to the backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of the streaming chat call.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// ChatChunk is one newline-delimited JSON object from the response body.
// Extra fields are ignored.
type ChatChunk struct {
	Message ChunkMessage `json:"message"`
	Done    bool         `json:"done"`
}

// ChunkMessage carries the incremental content fragment of a chunk.
type ChunkMessage struct {
	Content string `json:"content"`
}

// Model describes one installed model from /api/tags.
type Model struct {
	Name       string    `json:"name"`
	Model      string    `json:"model,omitempty"`
	Size       int64     `json:"size,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

// StatusError is a non-success response from the backend. Body is the raw
// upstream error body, relayed verbatim to the outward error event.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.StatusCode, e.Body)
}

// StreamCallback is called for each parsed chunk of a streaming response.
type StreamCallback func(chunk *ChatChunk) error

// Client talks to an Ollama instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure Client implements UpstreamClient.
var _ UpstreamClient = (*Client)(nil)

// NewClient creates an Ollama client. The timeout bounds the whole request
// including the streaming read.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatStream sends a streaming chat request and invokes the callback per
// chunk. A non-success status returns a *StatusError; lines that fail to
// parse as JSON are skipped. The stream ends after the chunk carrying the
// done flag.
func (c *Client) ChatStream(ctx context.Context, req *ChatRequest, callback StreamCallback) error {
	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	reader := bufio.NewReader(resp.Body)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read stream: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			var chunk ChatChunk
			if jsonErr := json.Unmarshal([]byte(trimmed), &chunk); jsonErr == nil {
				if cbErr := callback(&chunk); cbErr != nil {
					return cbErr
				}
				if chunk.Done {
					return nil
				}
			}
			// Unparsable lines are dropped; partial upstream framing is
			// not an error.
		}

		if err == io.EOF {
			return nil
		}
	}
}

// ListModels retrieves the installed models from /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result tagsResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Models, nil
}
