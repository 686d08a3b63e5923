package ports

import (
	"context"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

// TeamService manages organization membership.
type TeamService interface {
	List(ctx context.Context, orgID string) ([]*domain.User, error)
	UpdateRole(ctx context.Context, orgID, userID, role, updatedBy string) (*domain.User, error)
	Remove(ctx context.Context, orgID, userID, removedBy string) error
}
