package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByOrg(_ context.Context, orgID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.OrgID == orgID {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, orgID, userID, role string) error {
	u, ok := r.users[userID]
	if !ok || u.OrgID != orgID {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, orgID, userID string) error {
	u, ok := r.users[userID]
	if !ok || u.OrgID != orgID {
		return domain.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

type stubOrgRepo struct {
	orgs      map[string]*domain.Organization
	createErr error
}

func newStubOrgRepo() *stubOrgRepo {
	return &stubOrgRepo{orgs: make(map[string]*domain.Organization)}
}

func (r *stubOrgRepo) Create(_ context.Context, org *domain.Organization) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.orgs[org.ID] = org
	return nil
}

func (r *stubOrgRepo) FindByID(_ context.Context, id string) (*domain.Organization, error) {
	if o, ok := r.orgs[id]; ok {
		return o, nil
	}
	return nil, domain.ErrOrgNotFound
}

func (r *stubOrgRepo) Delete(_ context.Context, id string) error {
	delete(r.orgs, id)
	return nil
}

func newTestAuthService(users ports.UserRepository, orgs ports.OrgRepository) *AuthService {
	return NewAuthService(users, orgs, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_SignUp_Success(t *testing.T) {
	users := newStubUserRepo()
	orgs := newStubOrgRepo()
	svc := newTestAuthService(users, orgs)

	user, err := svc.SignUp(context.Background(), ports.SignUpInput{
		Email:    "alice@example.com",
		Password: "pass123",
		FullName: "Alice Doe",
		OrgName:  "Acme Compliance",
	})
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("first user should be admin, got %s", user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(orgs.orgs) != 1 {
		t.Fatalf("expected one organization provisioned, got %d", len(orgs.orgs))
	}
	org := orgs.orgs[user.OrgID]
	if org == nil {
		t.Fatalf("user org %q not provisioned", user.OrgID)
	}
	if org.Slug != "acme-compliance" {
		t.Fatalf("unexpected org slug: %s", org.Slug)
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubOrgRepo())

	if _, err := svc.SignUp(context.Background(), ports.SignUpInput{Email: "x@y.z"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	users := newStubUserRepo()
	orgs := newStubOrgRepo()
	svc := newTestAuthService(users, orgs)

	input := ports.SignUpInput{Email: "bob@example.com", Password: "pass", FullName: "Bob", OrgName: "Org"}
	if _, err := svc.SignUp(context.Background(), input); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.SignUp(context.Background(), input); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	// The org provisioned for the failed signup must be rolled back.
	if len(orgs.orgs) != 1 {
		t.Fatalf("expected orphan org to be removed, have %d orgs", len(orgs.orgs))
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuthService(users, newStubOrgRepo())

	created, err := svc.SignUp(context.Background(), ports.SignUpInput{
		Email: "carol@example.com", Password: "s3cret", FullName: "Carol", OrgName: "Org",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token, user, err := svc.SignIn(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("signin failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != created.ID {
		t.Fatalf("expected sub %s, got %v", created.ID, claims["sub"])
	}
	if claims["org_id"] != created.OrgID {
		t.Fatalf("expected org_id %s, got %v", created.OrgID, claims["org_id"])
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
}

func TestAuthService_SignIn_InvalidPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubOrgRepo())

	_, _ = svc.SignUp(context.Background(), ports.SignUpInput{
		Email: "dave@example.com", Password: "goodpass", FullName: "Dave", OrgName: "Org",
	})
	if _, _, err := svc.SignIn(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_UserNotFound(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubOrgRepo())

	if _, _, err := svc.SignIn(context.Background(), "ghost@example.com", "pass"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
