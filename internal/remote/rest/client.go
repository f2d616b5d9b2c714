// Package rest talks to a PostgREST-style row API (Supabase's /rest/v1).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/idilsaglam/grimoire/internal/model"
)

const conflictKey = "user_id,item_id"

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("rest: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("rest: %d: %s", e.Status, msg)
}

// Client implements progress.Remote over HTTP.
type Client struct {
	base   *url.URL
	table  string
	apiKey string
	token  func() string
	http   *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithToken supplies the bearer token per request; empty means the API key is used.
func WithToken(fn func() string) Option { return func(c *Client) { c.token = fn } }

// New builds a client for baseURL (without /rest/v1) and table.
func New(baseURL, table, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse url: %q is not absolute", baseURL)
	}
	c := &Client{
		base:   u,
		table:  table,
		apiKey: apiKey,
		token:  func() string { return "" },
		http:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(q url.Values) string {
	u := *c.base
	u.Path = u.Path + "/rest/v1/" + url.PathEscape(c.table)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method string, q url.Values, body any, out any, prefer string) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(q), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	bearer := c.token()
	if bearer == "" {
		bearer = c.apiKey
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, c.table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(b, apiErr)
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

// FetchProgress lists every record of userID.
func (c *Client) FetchProgress(ctx context.Context, userID string) ([]model.ProgressRecord, error) {
	q := url.Values{}
	q.Set("select", "user_id,item_id,completed,completed_at")
	q.Set("user_id", "eq."+userID)
	var out []model.ProgressRecord
	if err := c.do(ctx, http.MethodGet, q, nil, &out, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertProgress merges rec on the (user_id, item_id) constraint.
func (c *Client) UpsertProgress(ctx context.Context, rec model.ProgressRecord) error {
	q := url.Values{}
	q.Set("on_conflict", conflictKey)
	return c.do(ctx, http.MethodPost, q, []model.ProgressRecord{rec}, nil, "resolution=merge-duplicates,return=minimal")
}

// DeleteAllProgress removes every record of userID.
func (c *Client) DeleteAllProgress(ctx context.Context, userID string) error {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	return c.do(ctx, http.MethodDelete, q, nil, nil, "return=minimal")
}
