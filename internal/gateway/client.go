// Package gateway is the single point of outbound HTTP traffic for the
// clinic clients. Every request is decorated with the bearer credential
// when one is held, and every 401 response clears the credential and
// notifies the hosting application so it can fall back to its login view.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/rexlx/clinicdesk/internal/session"
)

const maxErrorBody = 8 << 10

// Client talks to the clinic backend. Construct with New, then override
// fields before first use if needed.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  *session.TokenStore

	// Limiter paces outbound requests so an eager view cannot flood the
	// backend. Nil disables pacing.
	Limiter *rate.Limiter

	Logger *slog.Logger

	// OnUnauthorized fires after a 401 has cleared the token store. The
	// hosting application decides navigation (and whether it is already on
	// its login view); the gateway never does.
	OnUnauthorized func()
}

func New(baseURL string, tokens *session.TokenStore) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Tokens:  tokens,
		Limiter: rate.NewLimiter(5, 10),
		Logger:  slog.Default(),
	}
}

// Get fetches path and decodes the JSON payload into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out, true)
}

// Post sends body as JSON and decodes the JSON payload into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out, true)
}

// Patch issues a PATCH with the given query string and no body. The
// response body is discarded.
func (c *Client) Patch(ctx context.Context, path string, query url.Values) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodPatch, path, nil, "", nil, true)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token at POST /token and stores
// it on success. It is the one distinguished call: no existing token is
// attached (credentials are being established, not used) and a 401 here is
// a normal failed login, so the store is left alone and OnUnauthorized
// never fires.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}

	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/token", strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", &resp, false)
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return &ServerError{Status: http.StatusOK, Body: "token response missing access_token"}
	}
	return c.Tokens.Set(resp.AccessToken)
}

// do runs one request end to end. authed selects the normal path: bearer
// decoration on the way out, 401 interception on the way back. Login passes
// false and gets neither.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any, authed bool) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return &NetworkError{Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		// Attach the header iff a token is held. A request with no token
		// goes out bare, never with an empty Authorization value.
		if token, ok := c.Tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Warn("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if authed {
			_ = c.Tokens.Clear()
			c.Logger.Info("session rejected, credential cleared", "path", path, "request_id", reqID)
			if c.OnUnauthorized != nil {
				c.OnUnauthorized()
			}
		}
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.Logger.Warn("server error", "method", method, "path", path,
			"request_id", reqID, "status", resp.StatusCode)
		return &ServerError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	c.Logger.Debug("request ok", "method", method, "path", path,
		"request_id", reqID, "status", resp.StatusCode)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServerError{Status: resp.StatusCode, Body: "undecodable response body: " + err.Error()}
	}
	return nil
}
