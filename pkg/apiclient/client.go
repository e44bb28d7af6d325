// Package apiclient is a typed client for the bus ticketing REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// ErrNotLoggedIn is returned by calls that need credentials when none are set.
var ErrNotLoggedIn = errors.New("not logged in")

// Credentials is the authenticated counter session. It is created by Login
// and passed explicitly to NewClient.
type Credentials struct {
	Token       string    `json:"token" mapstructure:"token"`
	CounterCode string    `json:"counterCode" mapstructure:"counter_code"`
	Role        string    `json:"role" mapstructure:"role"`
	ExpiresAt   time.Time `json:"expiresAt" mapstructure:"expires_at"`
}

// Valid reports whether the credentials can still be used.
func (c *Credentials) Valid(now time.Time) bool {
	return c != nil && c.Token != "" && (c.ExpiresAt.IsZero() || now.Before(c.ExpiresAt))
}

func (c *Credentials) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}

// Client wraps HTTP access to the API. Only GET requests are retried.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	creds       *Credentials
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	// Seats lists the already-booked seats of a 409 reply
	Seats []string
	// Fields holds per-field validation messages of a 400 reply
	Fields map[string]string
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) IsConflict() bool {
	return e != nil && e.StatusCode == http.StatusConflict
}

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsConflict()
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// NewClient creates a client for baseURL. creds may be nil before login. If
// httpClient is nil, a default client is used.
func NewClient(baseURL string, creds *Credentials, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		creds:       creds,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// Credentials returns the session the client authenticates with.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, auth bool) error {
	if auth && c.creds == nil {
		return ErrNotLoggedIn
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	endpoint := c.endpoint(path, query)
	maxAttempts := 1
	if method == http.MethodGet && c.maxAttempts > 1 {
		maxAttempts = c.maxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := c.send(ctx, method, endpoint, payload, auth)
		if err != nil {
			if shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
		_ = res.Body.Close()
		if err != nil {
			return fmt.Errorf("read response from %s: %w", endpoint, err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			if shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return decodeAPIError(res.StatusCode, endpoint, raw)
		}

		if out == nil {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, auth bool) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	}

	return c.httpClient.Do(req)
}

func decodeAPIError(status int, endpoint string, raw []byte) error {
	apiErr := &APIError{StatusCode: status, Endpoint: endpoint}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}
	apiErr.Message = env.Message

	if status == http.StatusConflict && len(env.Data) > 0 {
		var conflict struct {
			Seats []string `json:"seats"`
		}
		if json.Unmarshal(env.Data, &conflict) == nil {
			apiErr.Seats = conflict.Seats
		}
	}
	if len(env.Errors) > 0 {
		var fields map[string]string
		if json.Unmarshal(env.Errors, &fields) == nil {
			apiErr.Fields = fields
		}
	}

	return apiErr
}

// download fetches a binary resource and the server-suggested filename.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	if c.creds == nil {
		return nil, "", ErrNotLoggedIn
	}

	endpoint := c.endpoint(path, nil)
	res, err := c.send(ctx, http.MethodGet, endpoint, nil, true)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return nil, "", fmt.Errorf("read response from %s: %w", endpoint, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, "", decodeAPIError(res.StatusCode, endpoint, raw)
	}

	filename := ""
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return raw, filename, nil
}

func shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(c.retryDelay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	delay := c.retryBase << (attempt - 1)
	if delay > c.retryCap {
		return c.retryCap
	}
	return delay
}

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return q
}
