package ports

import (
	"context"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

// UserRepository defines persistence for team members.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// ListByOrg returns all members of an organization, newest first.
	ListByOrg(ctx context.Context, orgID string) ([]*domain.User, error)
	UpdateRole(ctx context.Context, orgID, userID, role string) error
	Delete(ctx context.Context, orgID, userID string) error
}

// OrgRepository defines persistence for organizations.
type OrgRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	FindByID(ctx context.Context, id string) (*domain.Organization, error)
	Delete(ctx context.Context, id string) error
}

// SignUpInput carries everything needed to provision an organization and its
// first (admin) user in one call.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	OrgName  string
}

// AuthService defines the authentication use cases.
type AuthService interface {
	// SignUp provisions the organization and its admin user. It never returns
	// a token: the account must sign in separately.
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	// SignIn verifies credentials and returns a signed bearer token plus the profile.
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
	// Profile fetches the application-level user record by id.
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
