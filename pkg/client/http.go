package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
)

// TokenStore persists the session between runs. Load returns nil when no
// session is stored.
type TokenStore interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// MemoryTokenStore is the default in-process TokenStore.
type MemoryTokenStore struct {
	mu   sync.Mutex
	sess *Session
}

func (s *MemoryTokenStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, nil
}

func (s *MemoryTokenStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}

// API is the HTTP client for the verification platform. It implements
// IdentityProvider, ProfileStore, CaseLookup and DocumentUploader against the
// platform's REST endpoints.
//
// The zero-value http.Client is used by default: no timeout and no retries.
// Callers who need different transport behaviour pass their own client.
type API struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	mu      sync.Mutex
	subs    map[int]func(*Session)
	nextSub int
}

// Option customises an API client.
type Option func(*API)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.http = c }
}

// WithTokenStore replaces the default in-memory session store.
func WithTokenStore(s TokenStore) Option {
	return func(a *API) { a.tokens = s }
}

// NewAPI creates a client for the platform at baseURL.
func NewAPI(baseURL string, opts ...Option) *API {
	a := &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  &MemoryTokenStore{},
		subs:    make(map[int]func(*Session)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type apiError struct {
	Error string `json:"error"`
}

// errorFromResponse extracts the {"error": ...} envelope, falling back to the
// HTTP status.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("%s", e.Error)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

func (a *API) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ── IdentityProvider ─────────────────────────────────────────────────────────

func (a *API) CurrentSession(ctx context.Context) (*Session, error) {
	return a.tokens.Load()
}

func (a *API) OnSessionChange(fn func(*Session)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
}

func (a *API) notify(sess *Session) {
	a.mu.Lock()
	subs := make([]func(*Session), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()
	for _, fn := range subs {
		fn(sess)
	}
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (a *API) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var out loginResponse
	err := a.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}

	sess := &Session{AccessToken: out.Token, UserID: out.User.ID}
	if err := a.tokens.Save(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	a.notify(sess)
	return sess, nil
}

func (a *API) SignUp(ctx context.Context, input SignUpInput) error {
	return a.postJSON(ctx, "/auth/signup", map[string]string{
		"email":     input.Email,
		"password":  input.Password,
		"full_name": input.FullName,
		"org_name":  input.OrgName,
	}, nil)
}

// SignOut discards the stored session and notifies subscribers. Bearer tokens
// are stateless server-side, so there is no remote call to fail.
func (a *API) SignOut(ctx context.Context) error {
	err := a.tokens.Clear()
	a.notify(nil)
	return err
}

// ── ProfileStore ─────────────────────────────────────────────────────────────

func (a *API) UserByID(ctx context.Context, id string) (*User, error) {
	sess, err := a.tokens.Load()
	if err != nil || sess == nil {
		return nil, fmt.Errorf("no session")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID != id {
		return nil, fmt.Errorf("profile mismatch")
	}
	return &user, nil
}

// ── Public onboarding endpoints ──────────────────────────────────────────────

func (a *API) LookupCase(ctx context.Context, caseID string) (*OnboardingCase, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/public/cases/"+caseID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var cse OnboardingCase
	if err := json.NewDecoder(resp.Body).Decode(&cse); err != nil {
		return nil, err
	}
	return &cse, nil
}

type uploadDetail struct {
	Detail string `json:"detail"`
}

// UploadDocument submits the file as a single multipart request. A non-2xx
// response or transport failure both surface as an error; the server's detail
// message is carried when present.
func (a *API) UploadDocument(ctx context.Context, caseID, docType string, file *FileUpload) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("case_id", caseID); err != nil {
		return err
	}
	if err := mw.WriteField("doc_type", docType); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return err
	}
	if _, err := part.Write(file.Content); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/public/documents/upload", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var d uploadDetail
		if json.Unmarshal(body, &d) == nil && d.Detail != "" {
			return &UploadError{Detail: d.Detail}
		}
		return &UploadError{Detail: ""}
	}
	return nil
}
