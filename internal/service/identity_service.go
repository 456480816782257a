package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/user"
	"github.com/medremind/medremind/pkg/auth"
	"github.com/medremind/medremind/pkg/metrics"
)

// IdentityService owns accounts and credentials. Role is immutable after
// signup; login names are unique across every role.
type IdentityService struct {
	users      user.Repository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	collector  *metrics.Collector
	log        *zap.Logger
}

func NewIdentityService(users user.Repository, jwtManager *auth.JWTManager, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *IdentityService {
	return &IdentityService{
		users:      users,
		jwtManager: jwtManager,
		auditSvc:   auditSvc,
		collector:  collector,
		log:        log,
	}
}

func (s *IdentityService) CreateUser(ctx context.Context, cmd *user.CreateUserCommand) (*user.User, error) {
	loginName := strings.TrimSpace(cmd.LoginName)
	if loginName == "" {
		return nil, &ValidationError{Fields: []string{"login_name is required"}}
	}
	if !cmd.Role.IsValid() {
		return nil, user.ErrInvalidRole
	}
	if !cmd.SkipCredentialPolicy {
		if err := user.ValidateCredential(cmd.RawCredential); err != nil {
			return nil, err
		}
	}

	exists, err := s.users.ExistsByLogin(ctx, loginName)
	if err != nil {
		s.log.Error("failed to check login uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking login uniqueness: %w", err)
	}
	if exists {
		return nil, user.ErrDuplicateLoginName
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(cmd.RawCredential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing credential: %w", err)
	}

	u := &user.User{
		LoginName:         loginName,
		CredentialDigest:  string(digest),
		Role:              cmd.Role,
		IsActive:          true,
		VerificationState: user.InitialVerificationState(cmd.Role),
	}

	if err := s.users.Create(ctx, u); err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.collector.UsersRegisteredTotal.WithLabelValues(string(u.Role)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      u.UserKey,
		UserRole:     string(u.Role),
		Action:       "create",
		ResourceType: "user",
		ResourceKey:  u.UserKey,
	})

	s.log.Info("user created",
		zap.String("user_key", u.UserKey),
		zap.String("role", string(u.Role)),
	)

	return u, nil
}

// Authenticate verifies (login_name, credential, role) and returns the user
// with a fresh session token pair. Unknown accounts still pay the bcrypt cost
// so response timing does not reveal whether the login name exists.
func (s *IdentityService) Authenticate(ctx context.Context, loginName, rawCredential string, role domain.Role) (*user.User, *domain.TokenPair, error) {
	u, err := s.users.GetByLogin(ctx, loginName, role)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_, _ = bcrypt.GenerateFromPassword([]byte(rawCredential), bcrypt.DefaultCost)
			return nil, nil, user.ErrUnknownAccount
		}
		return nil, nil, err
	}

	if !u.IsActive {
		return nil, nil, user.ErrInactiveAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.CredentialDigest), []byte(rawCredential)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("login_name", loginName),
			zap.String("role", string(role)),
		)
		return nil, nil, user.ErrBadCredential
	}

	if err := s.users.TouchLastLogin(ctx, u.UserKey); err != nil {
		s.log.Error("failed to stamp last login", zap.Error(err))
	}

	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserKey:   u.UserKey,
		LoginName: u.LoginName,
		Role:      u.Role,
	})
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      u.UserKey,
		UserRole:     string(u.Role),
		Action:       "login",
		ResourceType: "user",
		ResourceKey:  u.UserKey,
	})

	return u, pair, nil
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *IdentityService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrBadCredential
	}

	u, err := s.users.GetByKey(ctx, claims.UserKey)
	if err != nil || !u.IsActive {
		return nil, user.ErrBadCredential
	}

	return s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserKey:   u.UserKey,
		LoginName: u.LoginName,
		Role:      u.Role,
	})
}

func (s *IdentityService) Deactivate(ctx context.Context, userKey string) error {
	return s.users.SetActive(ctx, userKey, false)
}

func (s *IdentityService) Reactivate(ctx context.Context, userKey string) error {
	return s.users.SetActive(ctx, userKey, true)
}

// LookupByLogin returns the user key for (login_name, role), or empty when no
// such account exists.
func (s *IdentityService) LookupByLogin(ctx context.Context, loginName string, role domain.Role) (string, error) {
	u, err := s.users.GetByLogin(ctx, loginName, role)
	if errors.Is(err, user.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.UserKey, nil
}

func (s *IdentityService) GetUser(ctx context.Context, userKey string) (*user.User, error) {
	return s.users.GetByKey(ctx, userKey)
}

// DeleteUser removes an account and, through the store's cascade rules,
// everything it owns. Doctor references on other patients' records survive as
// nulls.
func (s *IdentityService) DeleteUser(ctx context.Context, userKey string) error {
	u, err := s.users.GetByKey(ctx, userKey)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userKey); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      userKey,
		UserRole:     string(u.Role),
		Action:       "delete",
		ResourceType: "user",
		ResourceKey:  userKey,
	})

	s.log.Info("user deleted", zap.String("user_key", userKey))
	return nil
}
