package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/hiring-gateway/pkg/logger"
)

// Config points the client at a hosted backend project.
type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

// Client talks to the backend's REST, Auth and Storage HTTP APIs. It keeps no
// state between calls besides the configured keys.
type Client struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     *http.Client
	logger         *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type keyKind int

const (
	anonKey keyKind = iota
	serviceKey
)

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	headers     map[string]string
	key         keyKind
	// bearer overrides the Authorization header; used for user-scoped auth calls.
	bearer string
}

// Response is a fully-read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// Raw returns the body as a JSON value, or null for empty bodies.
func (r *Response) Raw() json.RawMessage {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(r.Body)
}

// Total reads the exact row count from a Content-Range header such as "0-9/42" or "*/0".
func (r *Response) Total() (int, bool) {
	return ParseContentRangeTotal(r.Header.Get("Content-Range"))
}

func ParseContentRangeTotal(header string) (int, bool) {
	i := strings.LastIndex(header, "/")
	if i < 0 || i == len(header)-1 {
		return 0, false
	}
	total := header[i+1:]
	if total == "*" {
		return 0, false
	}
	n, err := strconv.Atoi(total)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Error is a non-2xx answer from the backend.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Body != "" {
		return e.Body
	}
	return http.StatusText(e.StatusCode)
}

func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsUniqueViolation matches the Postgres unique_violation code. PostgREST
// answers 409 for foreign-key violations too, so the status alone is not enough.
func IsUniqueViolation(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == "23505"
}

func (c *Client) do(ctx context.Context, req request) (*Response, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, req.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}

	key := c.anonKey
	if req.key == serviceKey {
		key = c.serviceRoleKey
	}
	httpReq.Header.Set("apikey", key)
	if req.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.bearer)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+key)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if id := logger.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "backend request failed",
			"method", req.method,
			"path", req.path,
			"error", err)
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	c.logger.DebugContext(ctx, "backend call",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, parseError(resp.StatusCode, body)
	}
	return out, nil
}

// parseError understands the error bodies of PostgREST, GoTrue and Storage.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{StatusCode: status, Body: strings.TrimSpace(string(body))}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	for _, key := range []string{"message", "error_description", "msg", "error"} {
		if raw, ok := payload[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				apiErr.Message = s
				break
			}
		}
	}
	for _, key := range []string{"code", "error_code"} {
		if raw, ok := payload[key]; ok {
			apiErr.Code = strings.Trim(string(raw), `"`)
			break
		}
	}
	return apiErr
}

func jsonBody(v interface{}) (io.Reader, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Ping checks that the backend answers its auth health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health", key: anonKey})
	return err
}
