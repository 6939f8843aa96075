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

	"github.com/sirupsen/logrus"
)

const requestTimeout = 10 * time.Second

// TokenSource supplies the current bearer token, or "" when logged out.
// The session owns the token; the client reads it on every request.
type TokenSource func() string

// Client is the REST client for the social backend.
type Client struct {
	http    *http.Client
	baseURL string
	token   TokenSource
}

// NewClient creates a client rooted at baseURL. token may be nil for
// an unauthenticated client.
func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// do issues a request and decodes the JSON response into dst (skipped
// when dst is nil). Non-2xx responses become *APIError with the
// backend's detail message; decode failures become *ParseError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, dst interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, path)
	}

	if dst == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &ParseError{Endpoint: path, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", dst)
}

func (c *Client) postJSON(ctx context.Context, path string, in, dst interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(payload), "application/json", dst)
}

func (c *Client) putJSON(ctx context.Context, path string, in, dst interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}
	return c.do(ctx, http.MethodPut, path, nil, bytes.NewReader(payload), "application/json", dst)
}

func (c *Client) postForm(ctx context.Context, path string, data url.Values, dst interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(data.Encode()), "application/x-www-form-urlencoded", dst)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// decodeError extracts the backend's {"detail": ...} error envelope.
func decodeError(resp *http.Response, path string) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		apiErr.Detail = envelope.Detail
	}
	logrus.WithFields(logrus.Fields{
		"path":   path,
		"status": resp.StatusCode,
		"detail": apiErr.Detail,
	}).Warn("api request failed")
	return apiErr
}
