package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// TokenSource provides the bearer token for authenticated requests.
// An empty token means no Authorization header is attached.
type TokenSource interface {
	Token() string
}

// Client is a thin HTTP client for the todo backend REST API. It
// handles Bearer token authentication, JSON marshaling, and decoding
// of the server's structured error payloads. It never interprets
// responses beyond that: business errors are surfaced verbatim.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the backend at baseURL. The token
// source is consulted per request so login/logout take effect without
// rebuilding the client.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, result)
}

func (c *Client) patch(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, result)
}

func (c *Client) delete(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, result)
}

// do is the core HTTP method that builds the request, attaches auth,
// and handles JSON (de)serialization and error payload decoding.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
	result interface{},
) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.logger != nil {
		c.logger.Debug("api request", "method", method, "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		// Best-effort decode; a non-JSON body leaves the fallback
		// message in place.
		_ = json.Unmarshal(respBody, apiErr)
		if c.logger != nil {
			c.logger.Warn("api error",
				"method", method, "path", path,
				"status", resp.StatusCode,
			)
		}
		return apiErr
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
