package domain

import "time"

// APIKey is an organization-scoped machine credential. Only the SHA-256 hash
// of the secret is stored; KeyPreview keeps the first characters for display.
type APIKey struct {
	ID         string     `json:"id" bson:"_id"`
	OrgID      string     `json:"org_id" bson:"org_id"`
	Label      string     `json:"label" bson:"label"`
	KeyPreview string     `json:"key_preview" bson:"key_preview"`
	SecretHash string     `json:"-" bson:"secret_hash"`
	IsActive   bool       `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" bson:"last_used_at,omitempty"`
}
