// Package apiclient is a typed client for the hiring gateway.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/hiring-gateway/pkg/permission"
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is safe for concurrent use. WithToken and WithRole return copies.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	role       *permission.Role
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// WithRole sets the role used for local permission checks.
func (c *Client) WithRole(role permission.Role) *Client {
	cp := *c
	cp.role = &role
	return &cp
}

func (c *Client) require(feature string) error {
	if !permission.HasFeatureAccess(c.role, feature) {
		return fmt.Errorf("%w: %s", ErrForbidden, feature)
	}
	return nil
}

type call struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) jsonCall(method, path string, query url.Values, payload interface{}) (call, error) {
	cl := call{method: method, path: path, query: query}
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return cl, fmt.Errorf("apiclient: encode request: %w", err)
		}
		cl.body = bytes.NewReader(buf)
		cl.contentType = "application/json"
	}
	return cl, nil
}

// do sends the call and decodes a 2xx body into out. Any other status is
// returned as *Error.
func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, cl.body)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	apiErr := &Error{StatusCode: status, Message: http.StatusText(status)}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		apiErr.Message = env.Error
		apiErr.Code = env.Code
		apiErr.Details = env.Details
		apiErr.Required = env.Required
		apiErr.Missing = env.Missing
		apiErr.Path = env.Path
	} else if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Details = text
	}
	return apiErr
}

func pageValues(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

type dataEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pageEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

func decodeData(raw json.RawMessage, out interface{}) error {
	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode data: %w", err)
	}
	return nil
}

func (c *Client) getData(ctx context.Context, path string, query url.Values, out interface{}) error {
	var env dataEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: path, query: query}, &env); err != nil {
		return err
	}
	return decodeData(env.Data, out)
}

func (c *Client) sendData(ctx context.Context, method, path string, payload, out interface{}) error {
	cl, err := c.jsonCall(method, path, nil, payload)
	if err != nil {
		return err
	}
	var env dataEnvelope
	if err := c.do(ctx, cl, &env); err != nil {
		return err
	}
	return decodeData(env.Data, out)
}

func (c *Client) getPage(ctx context.Context, path string, query url.Values, out interface{}) (Pagination, error) {
	var env pageEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: path, query: query}, &env); err != nil {
		return Pagination{}, err
	}
	return env.Pagination, decodeData(env.Data, out)
}

func (c *Client) upload(ctx context.Context, path, fileName string, content io.Reader, fields map[string]string) (*Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("apiclient: write field %s: %w", k, err)
		}
	}
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("apiclient: create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("apiclient: copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("apiclient: close multipart: %w", err)
	}

	var env dataEnvelope
	cl := call{method: http.MethodPost, path: path, body: &buf, contentType: mw.FormDataContentType()}
	if err := c.do(ctx, cl, &env); err != nil {
		return nil, err
	}
	var result Upload
	if err := decodeData(env.Data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
