// Package journal is a typed client for the journals resource family.
package journal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/notenest/notenest/internal/api"
	"github.com/notenest/notenest/internal/errs"
	"github.com/notenest/notenest/internal/model"
)

// Gateway is the slice of the request gateway this client needs. All
// journal calls are protected, so only the credential-bearing entry
// point is required.
type Gateway interface {
	SendAuthenticated(ctx context.Context, method, path string, body any, useRefresh bool) (*api.Response, error)
}

// Client wraps the gateway with journal entry operations.
type Client struct {
	gw  Gateway
	log *zap.Logger
}

// NewClient constructs a journal client. A nil logger disables logging.
func NewClient(gw Gateway, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{gw: gw, log: logger}
}

// dashboard query used for aggregate stats: first page, four most recent
// entries, counters for everything.
const statsPath = api.RouteJournals + "?page=1&limit=4"

// List fetches one page of entries.
func (c *Client) List(ctx context.Context, page, limit int) (*model.EntryPage, error) {
	path := fmt.Sprintf("%s?page=%d&limit=%d", api.RouteJournals, page, limit)
	resp, err := c.gw.SendAuthenticated(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	if !resp.OK() {
		return nil, statusErr("list journals", resp.Status)
	}
	var out model.EntryPage
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	return &out, nil
}

// Get fetches a single entry by id.
func (c *Client) Get(ctx context.Context, id string) (*model.Entry, error) {
	resp, err := c.gw.SendAuthenticated(ctx, http.MethodGet, entryPath(id), nil, false)
	if err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}
	if !resp.OK() {
		return nil, statusErr("get journal", resp.Status)
	}
	var out model.Entry
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}
	return &out, nil
}

// Create stores a new entry.
func (c *Client) Create(ctx context.Context, entry model.Entry) error {
	resp, err := c.gw.SendAuthenticated(ctx, http.MethodPost, api.RouteJournalCreate, entry, false)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if !resp.OK() {
		return statusErr("create journal", resp.Status)
	}
	c.log.Debug("journal created", zap.String("title", entry.Title))
	return nil
}

// Update patches an existing entry.
func (c *Client) Update(ctx context.Context, id string, entry model.Entry) error {
	resp, err := c.gw.SendAuthenticated(ctx, http.MethodPatch, entryPath(id), entry, false)
	if err != nil {
		return fmt.Errorf("update journal: %w", err)
	}
	if !resp.OK() {
		return statusErr("update journal", resp.Status)
	}
	return nil
}

// Delete removes an entry.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.gw.SendAuthenticated(ctx, http.MethodDelete, entryPath(id), nil, false)
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	if !resp.OK() {
		return statusErr("delete journal", resp.Status)
	}
	return nil
}

// Stats fetches the dashboard aggregate: total entries, per-category
// counts, and the most recent entries.
func (c *Client) Stats(ctx context.Context) (*model.EntryPage, error) {
	resp, err := c.gw.SendAuthenticated(ctx, http.MethodGet, statsPath, nil, false)
	if err != nil {
		return nil, fmt.Errorf("journal stats: %w", err)
	}
	if !resp.OK() {
		return nil, statusErr("journal stats", resp.Status)
	}
	var out model.EntryPage
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("journal stats: %w", err)
	}
	return &out, nil
}

func entryPath(id string) string {
	return api.RouteJournals + "/" + url.PathEscape(id)
}

func statusErr(op string, status int) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, errs.ErrUnauthorized)
	default:
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}
}
