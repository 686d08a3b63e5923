package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// AuthService implements sign-up (with organization provisioning), sign-in and
// profile lookup.
type AuthService struct {
	users     ports.UserRepository
	orgs      ports.OrgRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, orgs ports.OrgRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, orgs: orgs, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// SignUp provisions the organization and its first admin user. No token is
// issued: the new account signs in separately.
func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" || input.FullName == "" || input.OrgName == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      input.OrgName,
		Slug:      slugify(input.OrgName),
		Plan:      domain.PlanFree,
		CreatedAt: now,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		OrgID:        org.ID,
		Email:        strings.ToLower(input.Email),
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The org without its admin is unreachable; remove it again.
		if delErr := s.orgs.Delete(ctx, org.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("org_id", org.ID).Msg("orphaned organization after failed signup")
		}
		return nil, err
	}

	s.log.Info().Str("org_id", org.ID).Str("user_id", user.ID).Msg("organization provisioned")
	return user, nil
}

// SignIn verifies credentials and returns a signed bearer token plus the profile.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Profile fetches the application-level user record by id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":    user.ID,
		"org_id": user.OrgID,
		"email":  user.Email,
		"role":   user.Role,
		"exp":    time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// slugify lowercases the name and squashes runs of non-alphanumerics into
// single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
