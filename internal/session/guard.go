package session

import (
	"context"
	"fmt"

	"github.com/notenest/notenest/internal/errs"
)

// View is a renderable unit of the presentation layer.
type View func(ctx context.Context) error

// Guard blocks protected views until the Manager resolves initial state and
// redirects unauthenticated access to the login view. It holds no state of
// its own beyond what it reads from the Manager.
type Guard struct {
	Sessions    *Manager
	Placeholder View // shown while the session is still resolving; may be nil
}

// Wrap gates view on session state: a still-loading session renders the
// placeholder and performs no navigation; a resolved unauthenticated session
// navigates to login and never runs view; an authenticated session runs
// view unchanged.
func (g *Guard) Wrap(view View) View {
	return func(ctx context.Context) error {
		st := g.Sessions.State()
		if st.Loading {
			if g.Placeholder != nil {
				return g.Placeholder(ctx)
			}
			return nil
		}
		if !st.Authenticated {
			g.Sessions.nav.NavigateTo(ViewLogin)
			return fmt.Errorf("protected view: %w", errs.ErrUnauthorized)
		}
		return view(ctx)
	}
}
