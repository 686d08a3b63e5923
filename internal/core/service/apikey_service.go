package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// APIKeyService issues and revokes organization API keys.
type APIKeyService struct {
	repo  ports.APIKeyRepository
	audit ports.AuditService
	log   zerolog.Logger
}

func NewAPIKeyService(repo ports.APIKeyRepository, audit ports.AuditService, log zerolog.Logger) *APIKeyService {
	return &APIKeyService{repo: repo, audit: audit, log: log}
}

// Create issues a new key. The plaintext secret is returned exactly once;
// only its SHA-256 hash is stored.
func (s *APIKeyService) Create(ctx context.Context, orgID, label, createdBy string) (*ports.CreatedAPIKey, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(secret))

	key := &domain.APIKey{
		ID:         uuid.NewString(),
		OrgID:      orgID,
		Label:      label,
		KeyPreview: secret[:12] + "...",
		SecretHash: hex.EncodeToString(sum[:]),
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, err
	}

	s.log.Info().Str("org_id", orgID).Str("key_id", key.ID).Msg("api key created")
	s.audit.Record(ctx, ports.RecordInput{
		OrgID:      orgID,
		UserID:     createdBy,
		Action:     domain.ActionKeyCreated,
		EntityType: "apikey",
		EntityID:   key.ID,
		Metadata:   map[string]any{"label": label},
	})

	return &ports.CreatedAPIKey{Key: key, Secret: secret}, nil
}

// List returns all keys of an organization (hashes excluded by serialization).
func (s *APIKeyService) List(ctx context.Context, orgID string) ([]*domain.APIKey, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

// Revoke deactivates a key. Revocation is permanent.
func (s *APIKeyService) Revoke(ctx context.Context, orgID, keyID, revokedBy string) error {
	if err := s.repo.Deactivate(ctx, orgID, keyID); err != nil {
		return err
	}
	s.audit.Record(ctx, ports.RecordInput{
		OrgID:      orgID,
		UserID:     revokedBy,
		Action:     domain.ActionKeyRevoked,
		EntityType: "apikey",
		EntityID:   keyID,
	})
	return nil
}

func generateSecret() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return "vk_" + hex.EncodeToString(b), nil
}
