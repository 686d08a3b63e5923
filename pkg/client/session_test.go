package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu         sync.Mutex
	session    *Session
	cb         func(*Session)
	signOutErr error
	signOutN   int
}

func (p *fakeProvider) CurrentSession(_ context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session, nil
}

func (p *fakeProvider) OnSessionChange(fn func(*Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cb = fn
	return func() {}
}

func (p *fakeProvider) SignInWithPassword(_ context.Context, email, _ string) (*Session, error) {
	if email == "bad@example.com" {
		return nil, errors.New("invalid login credentials")
	}
	sess := &Session{AccessToken: "tok-" + email, UserID: "uid-" + email}
	p.mu.Lock()
	p.session = sess
	cb := p.cb
	p.mu.Unlock()
	if cb != nil {
		cb(sess)
	}
	return sess, nil
}

func (p *fakeProvider) SignUp(_ context.Context, _ SignUpInput) error { return nil }

func (p *fakeProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOutN++
	p.session = nil
	return p.signOutErr
}

// notify pushes an external session-change event, as the identity provider
// would, on its own goroutine.
func (p *fakeProvider) notify(sess *Session) {
	p.mu.Lock()
	cb := p.cb
	p.mu.Unlock()
	go cb(sess)
}

type fakeProfiles struct {
	mu    sync.Mutex
	users map[string]*User
	errs  map[string]error
	block map[string]chan struct{}
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		users: make(map[string]*User),
		errs:  make(map[string]error),
		block: make(map[string]chan struct{}),
	}
}

func (s *fakeProfiles) UserByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	gate := s.block[id]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[id]; err != nil {
		return nil, err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("profile not found")
}

func waitSettled(t *testing.T, m *SessionManager) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return !m.Snapshot().Loading
	}, time.Second, time.Millisecond)
	return m.Snapshot()
}

func TestSessionManager_BootstrapNoSession(t *testing.T) {
	provider := &fakeProvider{}
	m := NewSessionManager(provider, newFakeProfiles(), zerolog.Nop())

	require.True(t, m.Snapshot().Loading)
	require.Equal(t, DecisionLoading, m.Guard())

	m.Start(context.Background())
	snap := waitSettled(t, m)

	require.Equal(t, StateAnonymous, snap.State)
	require.Nil(t, snap.User)
	require.Nil(t, snap.Session)
	require.Equal(t, DecisionRedirect, m.Guard())
}

func TestSessionManager_BootstrapRestoresSession(t *testing.T) {
	provider := &fakeProvider{session: &Session{AccessToken: "tok", UserID: "u1"}}
	profiles := newFakeProfiles()
	profiles.users["u1"] = &User{ID: "u1", Email: "alice@example.com", Role: "admin"}
	m := NewSessionManager(provider, profiles, zerolog.Nop())

	m.Start(context.Background())
	snap := waitSettled(t, m)

	require.Equal(t, StateAuthenticated, snap.State)
	require.Equal(t, "u1", snap.User.ID)
	require.Equal(t, "tok", snap.Session.AccessToken)
	require.Equal(t, DecisionRender, m.Guard())
}

func TestSessionManager_LoadingLatchesFalseOnce(t *testing.T) {
	provider := &fakeProvider{}
	m := NewSessionManager(provider, newFakeProfiles(), zerolog.Nop())

	m.Start(context.Background())
	waitSettled(t, m)

	// Later events never bring the loading state back.
	provider.notify(&Session{AccessToken: "tok", UserID: "ghost"})
	require.Never(t, func() bool {
		return m.Snapshot().Loading
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSessionManager_ProfileFailureDowngrades(t *testing.T) {
	provider := &fakeProvider{session: &Session{AccessToken: "tok", UserID: "u1"}}
	profiles := newFakeProfiles()
	profiles.errs["u1"] = errors.New("profile store down")
	m := NewSessionManager(provider, profiles, zerolog.Nop())

	m.Start(context.Background())
	snap := waitSettled(t, m)

	// A session without a usable profile collapses to fully anonymous.
	require.Equal(t, StateAnonymous, snap.State)
	require.Nil(t, snap.User)
	require.Nil(t, snap.Session)
}

func TestSessionManager_SignOutUnconditional(t *testing.T) {
	provider := &fakeProvider{
		session:    &Session{AccessToken: "tok", UserID: "u1"},
		signOutErr: errors.New("network down"),
	}
	profiles := newFakeProfiles()
	profiles.users["u1"] = &User{ID: "u1"}
	m := NewSessionManager(provider, profiles, zerolog.Nop())

	m.Start(context.Background())
	require.Equal(t, StateAuthenticated, waitSettled(t, m).State)

	m.SignOut(context.Background())

	snap := m.Snapshot()
	require.Equal(t, StateAnonymous, snap.State)
	require.Nil(t, snap.User)
	require.Nil(t, snap.Session)
	require.Equal(t, 1, provider.signOutN)
}

func TestSessionManager_StaleResolutionDiscarded(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	profiles.users["ua"] = &User{ID: "ua", Email: "a@example.com"}
	profiles.users["ub"] = &User{ID: "ub", Email: "b@example.com"}
	gate := make(chan struct{})
	profiles.block["ua"] = gate

	m := NewSessionManager(provider, profiles, zerolog.Nop())
	m.Start(context.Background())
	waitSettled(t, m)

	// Session A's profile fetch hangs; session B arrives and resolves first.
	provider.notify(&Session{AccessToken: "tok-a", UserID: "ua"})
	require.Eventually(t, func() bool {
		return m.Snapshot().State == StateResolvingProfile
	}, time.Second, time.Millisecond)

	provider.notify(&Session{AccessToken: "tok-b", UserID: "ub"})
	require.Eventually(t, func() bool {
		snap := m.Snapshot()
		return snap.State == StateAuthenticated && snap.User != nil && snap.User.ID == "ub"
	}, time.Second, time.Millisecond)

	// A's late result must be ignored.
	close(gate)
	require.Never(t, func() bool {
		snap := m.Snapshot()
		return snap.User == nil || snap.User.ID != "ub"
	}, 50*time.Millisecond, 5*time.Millisecond)
	require.Equal(t, "tok-b", m.Snapshot().Session.AccessToken)
}

func TestSessionManager_SignInDelegates(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	profiles.users["uid-alice@example.com"] = &User{ID: "uid-alice@example.com"}
	m := NewSessionManager(provider, profiles, zerolog.Nop())
	m.Start(context.Background())
	waitSettled(t, m)

	require.Error(t, m.SignIn(context.Background(), "bad@example.com", "nope"))
	require.Equal(t, StateAnonymous, m.Snapshot().State)

	require.NoError(t, m.SignIn(context.Background(), "alice@example.com", "pw"))
	require.Eventually(t, func() bool {
		return m.Snapshot().State == StateAuthenticated
	}, time.Second, time.Millisecond)
}
