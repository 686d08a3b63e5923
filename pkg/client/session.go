// Package client is the Go SDK for the verification platform. It packages the
// session lifecycle and the public onboarding wizard that embedding
// applications drive, plus HTTP implementations of the provider contracts.
package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Session is an opaque bearer credential returned by the identity provider.
// UserID is the subject the profile is resolved for.
type Session struct {
	AccessToken string
	UserID      string
}

// User is the application-level profile attached to an authenticated session.
type User struct {
	ID        string `json:"id"`
	OrgID     string `json:"org_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// IdentityProvider is the authentication backend contract. All calls may fail
// with an error carrying a human-readable message.
type IdentityProvider interface {
	// CurrentSession returns the persisted session, or nil when none exists.
	CurrentSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers a callback invoked whenever the session
	// changes (sign-in, sign-out, external invalidation). The returned
	// function unsubscribes.
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, input SignUpInput) error
	SignOut(ctx context.Context) error
}

// SignUpInput carries registration data. Organization provisioning happens
// server-side; the session manager never creates the org record itself.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	OrgName  string
}

// ProfileStore resolves the application profile for a session subject.
type ProfileStore interface {
	UserByID(ctx context.Context, id string) (*User, error)
}

// SessionState is the session manager's lifecycle phase.
type SessionState string

const (
	StateBootstrapping    SessionState = "bootstrapping"
	StateResolvingProfile SessionState = "resolving_profile"
	StateAnonymous        SessionState = "anonymous"
	StateAuthenticated    SessionState = "authenticated"
)

// Snapshot is a consistent read of the observable session state.
type Snapshot struct {
	State   SessionState
	Loading bool
	User    *User
	Session *Session
}

// SessionManager is the single source of truth for "who is logged in".
// It bootstraps from any persisted session, follows the provider's change
// notifications, and exposes the sign-in, sign-up and sign-out operations.
//
// Profile resolutions may overlap when the bootstrap check and an early change
// notification race. Each resolution is tagged with a generation number and a
// result is discarded when a newer resolution has started since, so the
// observable (user, session) pair always reflects the most recent trigger.
type SessionManager struct {
	provider IdentityProvider
	profiles ProfileStore
	log      zerolog.Logger

	mu         sync.Mutex
	state      SessionState
	user       *User
	session    *Session
	loading    bool
	generation uint64

	unsubscribe func()
}

// NewSessionManager creates a manager in the Bootstrapping state. Call Start
// to begin session restoration.
func NewSessionManager(provider IdentityProvider, profiles ProfileStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		provider: provider,
		profiles: profiles,
		log:      log,
		state:    StateBootstrapping,
		loading:  true,
	}
}

// Start subscribes to provider notifications and restores any persisted
// session. It returns once the subscription is registered; resolution itself
// completes asynchronously and flips Loading to false exactly once.
func (m *SessionManager) Start(ctx context.Context) {
	m.unsubscribe = m.provider.OnSessionChange(func(sess *Session) {
		m.resolve(ctx, sess)
	})

	go func() {
		sess, err := m.provider.CurrentSession(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("session restore failed")
			sess = nil
		}
		m.resolve(ctx, sess)
	}()
}

// Close unsubscribes from provider notifications.
func (m *SessionManager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// resolve re-enters profile resolution for sess (nil means signed out).
// Safe to call concurrently; stale resolutions lose.
func (m *SessionManager) resolve(ctx context.Context, sess *Session) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	if sess == nil {
		m.applyLocked(gen, StateAnonymous, nil, nil)
		m.mu.Unlock()
		return
	}
	m.state = StateResolvingProfile
	m.mu.Unlock()

	user, err := m.profiles.UserByID(ctx, sess.UserID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// A session without a usable profile is not actionable; treat it
		// as an invalid session and clear both.
		m.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("profile resolution failed")
		m.applyLocked(gen, StateAnonymous, nil, nil)
		return
	}
	m.applyLocked(gen, StateAuthenticated, user, sess)
}

// applyLocked installs a resolution result unless a newer resolution has
// started since gen was taken. Loading latches to false on the first applied
// resolution and never becomes true again.
func (m *SessionManager) applyLocked(gen uint64, state SessionState, user *User, sess *Session) {
	if gen != m.generation {
		return
	}
	m.state = state
	m.user = user
	m.session = sess
	m.loading = false
}

// Snapshot returns a consistent view of the current state.
func (m *SessionManager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:   m.state,
		Loading: m.loading,
		User:    m.user,
		Session: m.session,
	}
}

// SignIn delegates to the identity provider. It does not mutate local state:
// the provider's change notification drives the transition, keeping one code
// path for direct sign-ins and external session changes alike.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) error {
	_, err := m.provider.SignInWithPassword(ctx, email, password)
	return err
}

// SignUp registers a new account. Registration never auto-authenticates; the
// account must sign in separately.
func (m *SessionManager) SignUp(ctx context.Context, input SignUpInput) error {
	return m.provider.SignUp(ctx, input)
}

// SignOut asks the provider to end the session and unconditionally clears
// local state. Provider errors are logged and swallowed so the user is never
// stuck logged in locally after requesting sign-out.
func (m *SessionManager) SignOut(ctx context.Context) {
	if err := m.provider.SignOut(ctx); err != nil {
		m.log.Warn().Err(err).Msg("remote sign-out failed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.applyLocked(m.generation, StateAnonymous, nil, nil)
}
