package domain

import "time"

// Audit actions recorded by the platform. Kept as plain strings in storage so
// new actions never require a migration.
const (
	ActionCaseCreated   = "case.created"
	ActionCaseStatus    = "case.status_changed"
	ActionCaseAssigned  = "case.assigned"
	ActionDocUploaded   = "document.uploaded"
	ActionRoleChanged   = "team.role_changed"
	ActionMemberRemoved = "team.member_removed"
	ActionKeyCreated    = "apikey.created"
	ActionKeyRevoked    = "apikey.revoked"
)

// AuditEntry is one immutable line in an organization's audit trail.
type AuditEntry struct {
	ID         string         `json:"id" bson:"_id"`
	OrgID      string         `json:"org_id" bson:"org_id"`
	UserID     string         `json:"user_id" bson:"user_id"`
	UserName   string         `json:"user_name,omitempty" bson:"user_name,omitempty"`
	Action     string         `json:"action" bson:"action"`
	EntityType string         `json:"entity_type" bson:"entity_type"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	Metadata   map[string]any `json:"metadata" bson:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}
