// Package restapi is the HTTP JSON client of the upstream storefront API.
package restapi

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
)

const maxResponseBytes = 4 << 20

// envelope is the shape of every upstream response.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const statusError = "error"

type Client struct {
	baseURL *url.URL
	http    *http.Client
	now     func() time.Time
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: u, http: httpClient, now: time.Now}, nil
}

type call struct {
	method string
	path   []string
	query  url.Values
	body   interface{}
	out    interface{}
	// bare accepts a response whose payload sits at the top level instead of
	// under "data".
	bare bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	u := c.baseURL.JoinPath(cl.path...)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var reqBody io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cl.method, u.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("%s %s: malformed response: %w", cl.method, u.Path, decodeErr)
	}
	if strings.EqualFold(env.Status, statusError) {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if cl.out == nil {
		return nil
	}

	data := env.Data
	if isNull(data) {
		if !cl.bare || len(bytes.TrimSpace(raw)) == 0 {
			return fmt.Errorf("%s %s: %w", cl.method, u.Path, errNoData)
		}
		data = raw
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%s %s: malformed data: %w", cl.method, u.Path, err)
	}
	return nil
}

func isNull(data json.RawMessage) bool {
	d := bytes.TrimSpace(data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

func (c *Client) today() string {
	return c.now().Format("2006-01-02")
}
