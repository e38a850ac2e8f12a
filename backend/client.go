package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/routai/routai"
)

// Interface compliance check.
var _ routai.Backend = (*Client)(nil)

// Client talks to the RoutAI backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	legacy     bool
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLegacyPaths targets the /chat/* routes served by older deployments.
func WithLegacyPaths() Option {
	return func(c *Client) { c.legacy = true }
}

// New creates a new backend [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateSession creates a new conversation session and returns its ID.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	path := sessionsPath
	if c.legacy {
		path = legacySessionsPath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("backend: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", httpError(resp)
	}

	var sr apiSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("backend: decode session response: %w", err)
	}
	if sr.SessionID == "" {
		return "", fmt.Errorf("backend: session response missing session_id")
	}
	return sr.SessionID, nil
}

// Stream opens an SSE chat stream for the given message and session. The
// returned stream stops emitting events promptly when ctx is cancelled.
func (c *Client) Stream(ctx context.Context, message, sessionID string) (routai.Stream, error) {
	path := streamPath
	if c.legacy {
		path = legacyStreamPath
	}
	body, err := json.Marshal(apiChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, httpError(resp)
	}

	return newStream(ctx, resp.Body), nil
}

// Segments fetches the per-day segments of a session's planned route.
func (c *Client) Segments(ctx context.Context, sessionID string) ([]routai.Segment, error) {
	var segments []routai.Segment
	if err := c.getJSON(ctx, sessionsPath+"/"+sessionID+"/segments", &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// Route fetches the aggregate route record of a session.
func (c *Client) Route(ctx context.Context, sessionID string) (routai.Route, error) {
	var route routai.Route
	if err := c.getJSON(ctx, sessionsPath+"/"+sessionID+"/route", &route); err != nil {
		return routai.Route{}, err
	}
	return route, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return nil
}

func httpError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return fmt.Errorf("backend: HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("backend: HTTP %d: %s", resp.StatusCode, body)
}
