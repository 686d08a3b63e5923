package ports

import (
	"context"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

// APIKeyRepository defines persistence for organization API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	ListByOrg(ctx context.Context, orgID string) ([]*domain.APIKey, error)
	Deactivate(ctx context.Context, orgID, keyID string) error
}

// CreatedAPIKey is returned exactly once at creation time; Secret is never
// retrievable again.
type CreatedAPIKey struct {
	Key    *domain.APIKey
	Secret string
}

// APIKeyService manages organization API keys.
type APIKeyService interface {
	Create(ctx context.Context, orgID, label, createdBy string) (*CreatedAPIKey, error)
	List(ctx context.Context, orgID string) ([]*domain.APIKey, error)
	Revoke(ctx context.Context, orgID, keyID, revokedBy string) error
}
