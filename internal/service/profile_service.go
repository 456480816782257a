package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/profile"
	"github.com/medremind/medremind/internal/domain/user"
)

type ProfileService struct {
	profiles profile.Repository
	users    user.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewProfileService(profiles profile.Repository, users user.Repository, auditSvc *AuditService, log *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, auditSvc: auditSvc, log: log}
}

// Upsert merges the command into the user's profile. Role-specific fields are
// validated only when supplied; untouched fields keep their stored values.
func (s *ProfileService) Upsert(ctx context.Context, userKey string, cmd *profile.UpsertProfileCommand) (*profile.Profile, error) {
	u, err := s.users.GetByKey(ctx, userKey)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil && *cmd.Email != "" {
		if err := profile.ValidateEmail(*cmd.Email); err != nil {
			return nil, err
		}
	}
	if cmd.Availability != nil {
		normalized, err := profile.NormalizeAvailability(*cmd.Availability)
		if err != nil {
			return nil, err
		}
		cmd.Availability = &normalized
	}
	if cmd.ConnectedPatient != nil && *cmd.ConnectedPatient != "" {
		patient, err := s.users.GetByKey(ctx, *cmd.ConnectedPatient)
		if err != nil {
			return nil, err
		}
		if patient.Role != domain.RolePatient {
			return nil, user.ErrInvalidRole
		}
	}

	p, err := s.profiles.Upsert(ctx, userKey, cmd)
	if err != nil {
		s.log.Error("failed to upsert profile", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      userKey,
		UserRole:     string(u.Role),
		Action:       "update",
		ResourceType: "profile",
		ResourceKey:  userKey,
	})

	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, userKey string) (*profile.Profile, error) {
	return s.profiles.GetByUserKey(ctx, userKey)
}
