package client

// Decision is the route guard's verdict for a protected page.
type Decision int

const (
	// DecisionLoading means no redirect decision can be made yet; render a
	// neutral loading state. Redirecting before the first resolution
	// completes would bounce an authenticated user to login on refresh.
	DecisionLoading Decision = iota
	// DecisionRedirect means there is no authenticated user; send the
	// visitor to the login route.
	DecisionRedirect
	// DecisionRender means the protected subtree may be shown.
	DecisionRender
)

// Guard returns the routing decision for the current session state.
func (m *SessionManager) Guard() Decision {
	snap := m.Snapshot()
	switch {
	case snap.Loading:
		return DecisionLoading
	case snap.User == nil:
		return DecisionRedirect
	default:
		return DecisionRender
	}
}
