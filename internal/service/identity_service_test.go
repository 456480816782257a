package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medremind/medremind/internal/config"
	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/user"
	"github.com/medremind/medremind/pkg/auth"
)

func newTestIdentityService(users *MockUserRepository) *IdentityService {
	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret!",
		AccessTokenTTL:  900000000000,
		RefreshTokenTTL: 9000000000000,
		Issuer:          "test",
	})
	return NewIdentityService(users, jwtManager, newTestAuditService(), testCollector, zap.NewNop())
}

func TestCreateUser_Succeeds(t *testing.T) {
	users := &MockUserRepository{
		CreateFunc: func(ctx context.Context, u *user.User) error {
			u.UserKey = "PAT12345"
			return nil
		},
	}
	svc := newTestIdentityService(users)

	u, err := svc.CreateUser(context.Background(), &user.CreateUserCommand{
		LoginName:     "asha",
		RawCredential: "Str0ng!pass",
		Role:          domain.RolePatient,
	})

	assert.NoError(t, err)
	assert.Equal(t, "PAT12345", u.UserKey)
	assert.True(t, u.IsActive)
	assert.Equal(t, user.VerificationApproved, u.VerificationState)
	assert.NotEqual(t, "Str0ng!pass", u.CredentialDigest)
}

func TestCreateUser_DoctorStartsPendingVerification(t *testing.T) {
	users := &MockUserRepository{
		CreateFunc: func(ctx context.Context, u *user.User) error { return nil },
	}
	svc := newTestIdentityService(users)

	u, err := svc.CreateUser(context.Background(), &user.CreateUserCommand{
		LoginName:     "drrao",
		RawCredential: "Str0ng!pass",
		Role:          domain.RoleDoctor,
	})

	assert.NoError(t, err)
	assert.Equal(t, user.VerificationPending, u.VerificationState)
}

func TestCreateUser_DuplicateLoginName(t *testing.T) {
	users := &MockUserRepository{
		ExistsByLoginFunc: func(ctx context.Context, loginName string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestIdentityService(users)

	_, err := svc.CreateUser(context.Background(), &user.CreateUserCommand{
		LoginName:     "asha",
		RawCredential: "Str0ng!pass",
		Role:          domain.RoleGuardian,
	})

	assert.ErrorIs(t, err, user.ErrDuplicateLoginName)
	assert.Zero(t, users.CreateCallCount)
}

func TestCreateUser_WeakCredentialRejected(t *testing.T) {
	svc := newTestIdentityService(&MockUserRepository{})

	_, err := svc.CreateUser(context.Background(), &user.CreateUserCommand{
		LoginName:     "asha",
		RawCredential: "weakpass",
		Role:          domain.RolePatient,
	})

	assert.ErrorIs(t, err, user.ErrWeakCredential)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	svc := newTestIdentityService(&MockUserRepository{})

	_, err := svc.CreateUser(context.Background(), &user.CreateUserCommand{
		LoginName:     "asha",
		RawCredential: "Str0ng!pass",
		Role:          domain.Role("admin"),
	})

	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestAuthenticate_Succeeds(t *testing.T) {
	digest, _ := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.DefaultCost)
	users := &MockUserRepository{
		GetByLoginFunc: func(ctx context.Context, loginName string, role domain.Role) (*user.User, error) {
			return &user.User{
				UserKey:          "PAT12345",
				LoginName:        loginName,
				CredentialDigest: string(digest),
				Role:             role,
				IsActive:         true,
			}, nil
		},
	}
	svc := newTestIdentityService(users)

	u, pair, err := svc.Authenticate(context.Background(), "asha", "Str0ng!pass", domain.RolePatient)

	assert.NoError(t, err)
	assert.Equal(t, "PAT12345", u.UserKey)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestAuthenticate_UnknownAccount(t *testing.T) {
	users := &MockUserRepository{
		GetByLoginFunc: func(ctx context.Context, loginName string, role domain.Role) (*user.User, error) {
			return nil, user.ErrNotFound
		},
	}
	svc := newTestIdentityService(users)

	_, _, err := svc.Authenticate(context.Background(), "ghost", "Str0ng!pass", domain.RolePatient)
	assert.ErrorIs(t, err, user.ErrUnknownAccount)
}

func TestAuthenticate_WrongCredential(t *testing.T) {
	digest, _ := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.DefaultCost)
	users := &MockUserRepository{
		GetByLoginFunc: func(ctx context.Context, loginName string, role domain.Role) (*user.User, error) {
			return &user.User{
				UserKey:          "PAT12345",
				CredentialDigest: string(digest),
				Role:             role,
				IsActive:         true,
			}, nil
		},
	}
	svc := newTestIdentityService(users)

	_, _, err := svc.Authenticate(context.Background(), "asha", "wrong-pass", domain.RolePatient)
	assert.ErrorIs(t, err, user.ErrBadCredential)
}

func TestAuthenticate_InactiveAccount(t *testing.T) {
	users := &MockUserRepository{
		GetByLoginFunc: func(ctx context.Context, loginName string, role domain.Role) (*user.User, error) {
			return &user.User{UserKey: "PAT12345", Role: role, IsActive: false}, nil
		},
	}
	svc := newTestIdentityService(users)

	_, _, err := svc.Authenticate(context.Background(), "asha", "Str0ng!pass", domain.RolePatient)
	assert.ErrorIs(t, err, user.ErrInactiveAccount)
}

func TestLookupByLogin_MissingAccountIsNotAnError(t *testing.T) {
	users := &MockUserRepository{
		GetByLoginFunc: func(ctx context.Context, loginName string, role domain.Role) (*user.User, error) {
			return nil, user.ErrNotFound
		},
	}
	svc := newTestIdentityService(users)

	key, err := svc.LookupByLogin(context.Background(), "ghost", domain.RoleDoctor)
	assert.NoError(t, err)
	assert.Empty(t, key)
}
