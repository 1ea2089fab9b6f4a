// Package session owns client session state: resolution from stored
// credentials, login/logout transitions, and navigation on state changes.
package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/notenest/notenest/internal/api"
	"github.com/notenest/notenest/internal/credstore"
	"github.com/notenest/notenest/internal/errs"
	"github.com/notenest/notenest/internal/model"
	"github.com/notenest/notenest/internal/token"
)

// Views the Navigator is asked to show.
const (
	ViewLogin     = "/login"
	ViewDashboard = "/dashboard"
)

// Navigator is the collaborating navigation layer. NavigateTo is a one-way
// effect; the Manager never asks to undo a redirect.
type Navigator interface {
	NavigateTo(view string)
}

// Gateway is the slice of the request gateway the Manager needs.
type Gateway interface {
	Send(ctx context.Context, method, path string, body any, authToken string) (*api.Response, error)
	SendAuthenticated(ctx context.Context, method, path string, body any, useRefresh bool) (*api.Response, error)
}

// State is a read-only snapshot of the session. While Loading is true the
// snapshot must not be treated as authoritative by any consumer.
type State struct {
	Authenticated bool
	User          *token.Claims
	Loading       bool
}

// Manager owns the session state machine. One process-wide instance is
// created at application start and torn down only at process exit; state is
// mutated exclusively through its transitions.
type Manager struct {
	creds credstore.Store
	gw    Gateway
	nav   Navigator
	log   *zap.Logger
	now   func() time.Time

	mu sync.Mutex
	st State
}

// NewManager constructs a Manager in the Loading state. Call Resolve before
// reading State or evaluating any redirect. A nil logger disables logging.
func NewManager(creds credstore.Store, gw Gateway, nav Navigator, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		creds: creds,
		gw:    gw,
		nav:   nav,
		log:   logger,
		now:   time.Now,
		st:    State{Loading: true},
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st
}

// Resolve performs the initial transition out of Loading from whatever the
// credential store holds. A present but undecodable or expired credential is
// cleared and the session recovers to Unauthenticated; resolution never
// fails and never crashes.
func (m *Manager) Resolve() {
	raw, ok := m.creds.Get(credstore.Access)
	if !ok {
		m.setUnauthenticated("no stored credential")
		return
	}
	claims, err := token.Decode(raw)
	if err != nil {
		m.creds.Remove(credstore.Access)
		m.setUnauthenticated("stored credential undecodable")
		return
	}
	if token.IsExpired(claims, m.now()) {
		m.creds.Remove(credstore.Access)
		m.setUnauthenticated("stored credential expired")
		return
	}
	m.setAuthenticated(claims)
}

// LoginUser exchanges the username/password for a token pair, persists both
// credentials, and navigates to the dashboard. Any 2xx login response counts
// as success. On failure the session stays Unauthenticated and the error is
// returned for the form layer to report; there is no automatic retry.
func (m *Manager) LoginUser(ctx context.Context, username, password string) error {
	body := model.Credentials{Username: username, Password: password}
	resp, err := m.gw.Send(ctx, http.MethodPost, api.RouteLogin, body, "")
	if err != nil {
		m.setUnauthenticated("login transport failure")
		return fmt.Errorf("login: %w", err)
	}
	if !resp.OK() {
		m.setUnauthenticated("login rejected")
		return fmt.Errorf("login rejected with status %d: %w", resp.Status, errs.ErrUnauthorized)
	}
	var pair model.TokenPair
	if err := resp.Decode(&pair); err != nil {
		m.setUnauthenticated("login payload undecodable")
		return fmt.Errorf("login response: %w", err)
	}
	claims, err := token.Decode(pair.AccessToken)
	if err != nil {
		m.setUnauthenticated("issued credential undecodable")
		return fmt.Errorf("login: %w", err)
	}

	m.creds.Set(credstore.Access, pair.AccessToken)
	m.creds.Set(credstore.Refresh, pair.RefreshToken)
	m.setAuthenticated(claims)
	m.nav.NavigateTo(ViewDashboard)
	return nil
}

// LogoutUser clears both credentials and leaves the session Unauthenticated.
// No network call is involved and repeated invocations are harmless.
func (m *Manager) LogoutUser() {
	m.creds.Remove(credstore.Access)
	m.creds.Remove(credstore.Refresh)
	m.setUnauthenticated("logout")
}

// Register creates an account. The signup flow returns to the login view
// afterwards; no session transition happens here.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	body := model.Credentials{Username: username, Password: password}
	resp, err := m.gw.Send(ctx, http.MethodPost, api.RouteRegister, body, "")
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("register rejected with status %d", resp.Status)
	}
	m.nav.NavigateTo(ViewLogin)
	return nil
}

// UpdateProfile sends new account data as a protected call. The session
// keeps its current user until the next login issues fresh claims.
func (m *Manager) UpdateProfile(ctx context.Context, username, password string) error {
	body := model.Profile{Username: username, Password: password}
	resp, err := m.gw.SendAuthenticated(ctx, http.MethodPatch, api.RouteProfile, body, false)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("update profile rejected with status %d", resp.Status)
	}
	return nil
}

func (m *Manager) setAuthenticated(claims *token.Claims) {
	m.mu.Lock()
	m.st = State{Authenticated: true, User: claims}
	m.mu.Unlock()
	m.log.Debug("session authenticated", zap.String("username", claims.Username))
}

// setUnauthenticated commits the resolved logged-out state and instructs
// the navigation layer to show the login view.
func (m *Manager) setUnauthenticated(reason string) {
	m.mu.Lock()
	m.st = State{}
	m.mu.Unlock()
	m.log.Debug("session unauthenticated", zap.String("reason", reason))
	m.nav.NavigateTo(ViewLogin)
}
