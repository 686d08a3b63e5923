package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// TeamService manages the members of an organization.
type TeamService struct {
	users ports.UserRepository
	audit ports.AuditService
	log   zerolog.Logger
}

func NewTeamService(users ports.UserRepository, audit ports.AuditService, log zerolog.Logger) *TeamService {
	return &TeamService{users: users, audit: audit, log: log}
}

// List returns all members of the organization.
func (s *TeamService) List(ctx context.Context, orgID string) ([]*domain.User, error) {
	return s.users.ListByOrg(ctx, orgID)
}

// UpdateRole changes a member's role. Admins cannot demote themselves so an
// organization always keeps at least one admin path.
func (s *TeamService) UpdateRole(ctx context.Context, orgID, userID, role, updatedBy string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}
	if userID == updatedBy {
		return nil, domain.ErrForbidden
	}

	member, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member.OrgID != orgID {
		return nil, domain.ErrUserNotFound
	}

	if err := s.users.UpdateRole(ctx, orgID, userID, role); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, ports.RecordInput{
		OrgID:      orgID,
		UserID:     updatedBy,
		Action:     domain.ActionRoleChanged,
		EntityType: "user",
		EntityID:   userID,
		Metadata:   map[string]any{"from": member.Role, "to": role},
	})

	member.Role = role
	return member, nil
}

// Remove deletes a member from the organization. Self-removal is rejected.
func (s *TeamService) Remove(ctx context.Context, orgID, userID, removedBy string) error {
	if userID == removedBy {
		return domain.ErrForbidden
	}

	member, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if member.OrgID != orgID {
		return domain.ErrUserNotFound
	}

	if err := s.users.Delete(ctx, orgID, userID); err != nil {
		return err
	}

	s.audit.Record(ctx, ports.RecordInput{
		OrgID:      orgID,
		UserID:     removedBy,
		Action:     domain.ActionMemberRemoved,
		EntityType: "user",
		EntityID:   userID,
		Metadata:   map[string]any{"email": member.Email},
	})
	return nil
}
