package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Message represents one entry of a prompt context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Format selects how generated text is extracted from the backend response.
type Format string

const (
	// FormatChat reads message.content (Ollama /api/chat style).
	FormatChat Format = "chat"
	// FormatGenerate reads output.text (hosted generation APIs).
	FormatGenerate Format = "generate"
)

// Client is a minimal chat completion client for one configured backend.
// It never retries: a failed call is reported once, as a *BackendError.
type Client struct {
	url        string
	apiKey     string
	model      string
	format     Format
	httpClient *http.Client
}

// NewClient creates a backend client. apiKey may be empty for local
// inference servers; when set it is sent as a bearer token.
func NewClient(url, apiKey, model string, format Format, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		format: format,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type generateResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
}

// Complete sends the assembled message sequence to the backend and returns
// the generated text. A non-nil error is always a *BackendError.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := completionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &BackendError{Kind: KindUnexpected, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", &BackendError{Kind: KindUnexpected, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isUnreachable(err) {
			return "", &BackendError{Kind: KindConnection, Err: err}
		}
		return "", &BackendError{Kind: KindUnexpected, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Kind: KindUnexpected, Err: fmt.Errorf("failed reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &BackendError{Kind: KindRejected, Status: resp.StatusCode, Body: truncate(string(body), 400)}
	}

	text, err := extractText(c.format, body)
	if err != nil {
		return "", &BackendError{Kind: KindUnexpected, Err: err}
	}
	return text, nil
}

func extractText(format Format, body []byte) (string, error) {
	switch format {
	case FormatGenerate:
		var parsed generateResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("failed to parse response: %s", truncate(string(body), 400))
		}
		return parsed.Output.Text, nil
	default:
		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("failed to parse response: %s", truncate(string(body), 400))
		}
		return parsed.Message.Content, nil
	}
}

// isUnreachable reports whether a transport error means the backend could not
// be reached at all. Timeouts count: no cancellation protocol exists, so an
// expired deadline is indistinguishable from an unreachable server.
func isUnreachable(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
