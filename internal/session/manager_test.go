package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notenest/notenest/internal/api"
	"github.com/notenest/notenest/internal/credstore"
	"github.com/notenest/notenest/internal/errs"
)

type memStore map[credstore.Kind]string

var _ credstore.Store = memStore{}

func (s memStore) Get(k credstore.Kind) (string, bool) { v, ok := s[k]; return v, ok }
func (s memStore) Set(k credstore.Kind, v string)      { s[k] = v }
func (s memStore) Remove(k credstore.Kind)             { delete(s, k) }

type fakeNav struct{ views []string }

func (n *fakeNav) NavigateTo(view string) { n.views = append(n.views, view) }

func (n *fakeNav) last() string {
	if len(n.views) == 0 {
		return ""
	}
	return n.views[len(n.views)-1]
}

type gwCall struct {
	method string
	path   string
	body   any
}

type fakeGateway struct {
	resp  *api.Response
	err   error
	calls []gwCall
}

var _ Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) Send(_ context.Context, method, path string, body any, _ string) (*api.Response, error) {
	g.calls = append(g.calls, gwCall{method, path, body})
	return g.resp, g.err
}

func (g *fakeGateway) SendAuthenticated(ctx context.Context, method, path string, body any, _ bool) (*api.Response, error) {
	return g.Send(ctx, method, path, body, "")
}

func signToken(t *testing.T, username string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":       "u-1",
		"username": username,
		"iat":      time.Now().Unix(),
		"exp":      exp.Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func newTestManager(store credstore.Store, gw Gateway) (*Manager, *fakeNav) {
	nav := &fakeNav{}
	return NewManager(store, gw, nav, nil), nav
}

func Test_InitialState_IsLoading(t *testing.T) {
	m, nav := newTestManager(memStore{}, &fakeGateway{})
	st := m.State()
	if !st.Loading || st.Authenticated || st.User != nil {
		t.Fatalf("state=%+v, want loading", st)
	}
	// no redirect may happen before resolution completes
	if len(nav.views) != 0 {
		t.Fatalf("navigated while loading: %v", nav.views)
	}
}

func Test_Resolve_NoCredential(t *testing.T) {
	m, nav := newTestManager(memStore{}, &fakeGateway{})
	m.Resolve()
	st := m.State()
	if st.Loading || st.Authenticated {
		t.Fatalf("state=%+v, want resolved unauthenticated", st)
	}
	if nav.last() != ViewLogin {
		t.Fatalf("views=%v, want redirect to login", nav.views)
	}
}

func Test_Resolve_ExpiredCredential_ClearsAndLogsOut(t *testing.T) {
	store := memStore{}
	store.Set(credstore.Access, signToken(t, "alice12345", time.Now().Add(-time.Second)))
	m, nav := newTestManager(store, &fakeGateway{})

	m.Resolve()

	if _, ok := store.Get(credstore.Access); ok {
		t.Fatalf("expired credential must be removed")
	}
	st := m.State()
	if st.Loading || st.Authenticated {
		t.Fatalf("state=%+v, want unauthenticated", st)
	}
	if nav.last() != ViewLogin {
		t.Fatalf("views=%v", nav.views)
	}
}

func Test_Resolve_MalformedCredential_RecoversSilently(t *testing.T) {
	store := memStore{}
	store.Set(credstore.Access, "garbage")
	m, _ := newTestManager(store, &fakeGateway{})

	m.Resolve()

	if _, ok := store.Get(credstore.Access); ok {
		t.Fatalf("malformed credential must be removed")
	}
	if st := m.State(); st.Authenticated || st.Loading {
		t.Fatalf("state=%+v", st)
	}
}

func Test_Resolve_ValidCredential(t *testing.T) {
	store := memStore{}
	store.Set(credstore.Access, signToken(t, "alice12345", time.Now().Add(time.Hour)))
	m, nav := newTestManager(store, &fakeGateway{})

	m.Resolve()

	st := m.State()
	if !st.Authenticated || st.Loading || st.User == nil {
		t.Fatalf("state=%+v, want authenticated", st)
	}
	if st.User.Username != "alice12345" {
		t.Fatalf("username=%q", st.User.Username)
	}
	if len(nav.views) != 0 {
		t.Fatalf("unexpected redirect: %v", nav.views)
	}
}

func Test_LoginUser_Success(t *testing.T) {
	access := signToken(t, "alice12345", time.Now().Add(15*time.Minute))
	payload, _ := json.Marshal(map[string]string{
		"accessToken":  access,
		"refreshToken": "refresh-tok",
	})
	gw := &fakeGateway{resp: &api.Response{Status: http.StatusOK, Data: payload}}
	store := memStore{}
	m, nav := newTestManager(store, gw)

	if err := m.LoginUser(context.Background(), "alice12345", "password123"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	if got := gw.calls[0]; got.method != http.MethodPost || got.path != api.RouteLogin {
		t.Fatalf("call=%+v", got)
	}
	if tok, ok := store.Get(credstore.Access); !ok || tok != access {
		t.Fatalf("access not persisted")
	}
	if tok, ok := store.Get(credstore.Refresh); !ok || tok != "refresh-tok" {
		t.Fatalf("refresh not persisted")
	}
	st := m.State()
	if !st.Authenticated || st.User.Username != "alice12345" {
		t.Fatalf("state=%+v", st)
	}
	if nav.last() != ViewDashboard {
		t.Fatalf("views=%v, want dashboard", nav.views)
	}
}

func Test_LoginUser_Created201_CountsAsSuccess(t *testing.T) {
	access := signToken(t, "bob", time.Now().Add(15*time.Minute))
	payload, _ := json.Marshal(map[string]string{"accessToken": access, "refreshToken": "r"})
	gw := &fakeGateway{resp: &api.Response{Status: http.StatusCreated, Data: payload}}
	m, _ := newTestManager(memStore{}, gw)

	if err := m.LoginUser(context.Background(), "bob", "pw"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if !m.State().Authenticated {
		t.Fatalf("want authenticated on 201")
	}
}

func Test_LoginUser_Rejected(t *testing.T) {
	gw := &fakeGateway{resp: &api.Response{Status: http.StatusUnauthorized}}
	store := memStore{}
	m, _ := newTestManager(store, gw)

	err := m.LoginUser(context.Background(), "alice12345", "wrong")
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("err=%v, want ErrUnauthorized", err)
	}
	if m.State().Authenticated {
		t.Fatalf("must stay unauthenticated")
	}
	if _, ok := store.Get(credstore.Access); ok {
		t.Fatalf("no credential may be persisted on rejection")
	}
}

func Test_LoginUser_TransportFailure(t *testing.T) {
	gw := &fakeGateway{err: fmt.Errorf("dial: %w", errs.ErrServerUnavailable)}
	m, _ := newTestManager(memStore{}, gw)

	err := m.LoginUser(context.Background(), "alice12345", "pw")
	if !errors.Is(err, errs.ErrServerUnavailable) {
		t.Fatalf("err=%v", err)
	}
	if m.State().Authenticated {
		t.Fatalf("must stay unauthenticated")
	}
}

func Test_LogoutUser_IsIdempotent(t *testing.T) {
	store := memStore{}
	store.Set(credstore.Access, "a")
	store.Set(credstore.Refresh, "r")
	m, nav := newTestManager(store, &fakeGateway{})

	m.LogoutUser()
	m.LogoutUser()

	if _, ok := store.Get(credstore.Access); ok {
		t.Fatalf("access must be absent")
	}
	if _, ok := store.Get(credstore.Refresh); ok {
		t.Fatalf("refresh must be absent")
	}
	st := m.State()
	if st.Authenticated || st.Loading {
		t.Fatalf("state=%+v", st)
	}
	if nav.last() != ViewLogin {
		t.Fatalf("views=%v", nav.views)
	}
}

func Test_Register(t *testing.T) {
	gw := &fakeGateway{resp: &api.Response{Status: http.StatusOK}}
	m, nav := newTestManager(memStore{}, gw)

	if err := m.Register(context.Background(), "alice12345", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := gw.calls[0]; got.path != api.RouteRegister {
		t.Fatalf("call=%+v", got)
	}
	// signup sends the user back to the login form, not into a session
	if m.State().Authenticated {
		t.Fatalf("register must not authenticate")
	}
	if nav.last() != ViewLogin {
		t.Fatalf("views=%v", nav.views)
	}
}

func Test_UpdateProfile_Rejected(t *testing.T) {
	gw := &fakeGateway{resp: &api.Response{Status: http.StatusBadRequest}}
	m, _ := newTestManager(memStore{}, gw)

	if err := m.UpdateProfile(context.Background(), "alice12345", "short"); err == nil {
		t.Fatalf("want error on rejected profile update")
	}
}
