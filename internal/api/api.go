// HTTP client for the Lysn backend.
//
// The backend is a FastAPI service: request bodies are form-encoded, file
// uploads are multipart, and failures carry a human-readable message in the
// "detail" field. The client surfaces that message verbatim via [Error] so
// callers can display it without interpretation.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

const defaultBaseURL = "http://localhost:8000"

// Error is an API failure carrying the backend's human-readable message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: status %d", e.StatusCode)
}

// Client provides typed operations against the Lysn backend.
//
// A zero timeout disables the per-request ceiling, reproducing the original
// client's behavior of waiting indefinitely on a hung call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	mu      sync.Mutex
	session *models.Session
}

// NewClient creates a new backend client.
func NewClient(baseURL string, client *http.Client, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		timeout:    timeout,
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetSession installs the session used for authenticated calls.
func (c *Client) SetSession(session *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

// Session returns the current session, nil when unauthenticated.
func (c *Client) Session() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	return c.Session() != nil
}

// token returns the held session token or an error when logged out.
func (c *Client) token() (string, error) {
	session := c.Session()
	if session == nil || session.Token == "" {
		return "", shared.ErrNotAuthenticated
	}
	return session.Token, nil
}

// withTimeout applies the configured request ceiling to ctx.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// postForm performs a form-encoded POST and decodes the JSON response into result.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, result any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, result)
}

// do executes the request, mapping non-2xx responses to [Error] and timeouts
// to [shared.ErrTimeout].
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", shared.ErrTimeout, c.timeout)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError extracts the backend's "detail" message from a failed response.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			apiErr.Message = payload.Detail
		} else if payload.Message != "" {
			apiErr.Message = payload.Message
		}
	}

	return apiErr
}

// Get performs a raw GET request and returns the response body, used by the
// debug commands and health checks.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", shared.ErrTimeout, c.timeout)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	return body, nil
}
