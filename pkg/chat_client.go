package pkg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RequestMessage is one role-tagged message sent to the completion API
type RequestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the payload sent to the completion API
type ChatCompletionRequest struct {
	Messages []RequestMessage `json:"messages"`
}

// chatCompletionResponse mirrors the provider response. Output is kept raw
// because the provider returns either an object carrying "content" or a bare
// string, depending on the model.
type chatCompletionResponse struct {
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error,omitempty"`
}

// UpstreamError is a non-success response from the completion API. The status
// code is kept so callers can tell a rate-limit (429) from other failures.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("chat API error: status %d: %s", e.StatusCode, e.Body)
}

// RateLimited reports whether the upstream signaled a rate-limit-class status
func (e *UpstreamError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ChatClient is the sole client of the remote text-completion service.
// One attempt per call; retry policy belongs to the caller.
type ChatClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
}

func NewChatClient(apiKey, baseURL, model string) *ChatClient {
	return &ChatClient{
		client:  &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
	}
}

// CreateChatCompletion sends the messages to the model and returns the
// completion text. Non-2xx responses surface as *UpstreamError.
func (c *ChatClient) CreateChatCompletion(messages []RequestMessage) (string, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)

	jsonBody, err := json.Marshal(ChatCompletionRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %v", err)
	}

	return extractOutput(response.Output), nil
}

// extractOutput resolves the completion text with a fixed precedence:
// output.content when output is an object, then output itself when it is a
// string, then the raw JSON of whatever was returned, then empty.
func extractOutput(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Content != "" {
		return obj.Content
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
