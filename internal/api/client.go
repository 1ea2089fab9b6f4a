// Package api is the HTTP request gateway for the NoteNest API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/notenest/notenest/internal/credstore"
	"github.com/notenest/notenest/internal/errs"
	"github.com/notenest/notenest/internal/model"
)

// Client issues HTTP calls against the NoteNest API, attaching bearer
// credentials and transparently refreshing the access token once on 401.
type Client struct {
	baseURL string
	http    *http.Client
	creds   credstore.Store
	log     *zap.Logger
}

// NewClient constructs a gateway for the given API base URL. A nil logger
// disables logging.
func NewClient(baseURL string, creds credstore.Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		log:     logger,
	}
}

// Response is the uniform call result. Callers branch on Status for
// expected application-level failures (400/401/404) instead of errors;
// Data holds the JSON payload of successful responses and is nil otherwise.
type Response struct {
	Status int
	Data   json.RawMessage
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// Decode unmarshals the response payload into dest.
func (r *Response) Decode(dest any) error {
	if len(r.Data) == 0 {
		return errors.New("response carries no payload")
	}
	return json.Unmarshal(r.Data, dest)
}

// Send issues one API call. A 401 response triggers exactly one refresh
// cycle: the stored refresh credential is exchanged for a new access token,
// the token is persisted, and the original call is retried once with it. If
// the refresh round-trip fails in any way, the original 401 result is
// returned unchanged. Neither the refresh call nor the retry can trigger a
// further refresh, so a revoked refresh token cannot loop.
func (c *Client) Send(ctx context.Context, method, path string, body any, authToken string) (*Response, error) {
	resp, err := c.do(ctx, method, path, body, authToken)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusUnauthorized {
		return resp, nil
	}

	if err := c.refreshAccess(ctx); err != nil {
		c.log.Debug("token refresh failed", zap.Error(err))
		return resp, nil
	}
	fresh, _ := c.creds.Get(credstore.Access)
	return c.do(ctx, method, path, body, fresh)
}

// SendAuthenticated resolves the bearer token from the credential store
// (refresh or access kind per useRefresh) and fails fast before any network
// I/O when it is absent, then delegates to Send.
func (c *Client) SendAuthenticated(ctx context.Context, method, path string, body any, useRefresh bool) (*Response, error) {
	kind := credstore.Access
	if useRefresh {
		kind = credstore.Refresh
	}
	tok, ok := c.creds.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%s credential: %w", kind, errs.ErrMissingCredential)
	}
	return c.Send(ctx, method, path, body, tok)
}

// refreshAccess performs the refresh round-trip and commits the new access
// token to the store before returning.
func (c *Client) refreshAccess(ctx context.Context) error {
	rtok, ok := c.creds.Get(credstore.Refresh)
	if !ok {
		return fmt.Errorf("refresh credential: %w", errs.ErrMissingCredential)
	}
	resp, err := c.do(ctx, http.MethodPost, RouteRefresh, struct{}{}, rtok)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("refresh rejected with status %d: %w", resp.Status, errs.ErrUnauthorized)
	}
	var pair model.TokenPair
	if err := resp.Decode(&pair); err != nil {
		return fmt.Errorf("refresh response: %w", err)
	}
	if pair.AccessToken == "" {
		return errors.New("refresh response without access token")
	}
	c.creds.Set(credstore.Access, pair.AccessToken)
	c.log.Debug("access token refreshed")
	return nil
}

// do performs a single HTTP round-trip with no refresh handling.
func (c *Client) do(ctx context.Context, method, path string, body any, authToken string) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-Id", id.String())
	}

	c.log.Debug("api request", zap.String("method", method), zap.String("path", path))

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 500 {
		excerpt, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("%s %s: status %d: %s: %w",
			method, path, httpResp.StatusCode, bytes.TrimSpace(excerpt), errs.ErrServerUnavailable)
	}

	resp := &Response{Status: httpResp.StatusCode}
	if resp.OK() && isJSON(httpResp.Header.Get("Content-Type")) {
		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		resp.Data = data
	}

	c.log.Debug("api response", zap.String("path", path), zap.Int("status", resp.Status))
	return resp, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
