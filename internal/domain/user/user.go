package user

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/medremind/medremind/internal/domain"
)

// VerificationState tracks administrative review of an account. Doctors are
// created pending and must be approved before they appear in doctor listings;
// patients and guardians are approved on signup.
type VerificationState string

const (
	VerificationPending  VerificationState = "pending"
	VerificationApproved VerificationState = "approved"
	VerificationRejected VerificationState = "rejected"
)

func (v VerificationState) IsValid() bool {
	switch v {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

type User struct {
	UserKey   string    `gorm:"column:user_key;type:varchar(16);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	LoginName        string      `gorm:"column:login_name;type:varchar(100);uniqueIndex;not null"`
	CredentialDigest string      `gorm:"column:credential_digest;type:varchar(255);not null"`
	Role             domain.Role `gorm:"column:role;type:varchar(20);not null;index"`

	IsActive          bool              `gorm:"column:is_active;default:true;index"`
	VerificationState VerificationState `gorm:"column:verification_state;type:varchar(20);not null;default:'approved'"`
	LastLogin         *time.Time        `gorm:"column:last_login"`
}

func (User) TableName() string {
	return "users"
}

// InitialVerificationState returns the verification state a fresh account of
// the given role starts in.
func InitialVerificationState(role domain.Role) VerificationState {
	if role == domain.RoleDoctor {
		return VerificationPending
	}
	return VerificationApproved
}

// credentialPunctuation is the closed set of special characters the signup
// policy accepts as the required punctuation character.
const credentialPunctuation = "!@#$%^&*()-_=+[]{};:,.?/"

// ValidateCredential enforces the signup credential policy: at least 8
// characters with one digit, one uppercase letter, and one punctuation
// character. Existing digests are never re-checked, so weak legacy accounts
// keep working.
func ValidateCredential(raw string) error {
	// Length counts characters, not bytes, so multibyte runes do not inflate
	// a short credential past the gate.
	if utf8.RuneCountInString(raw) < 8 {
		return ErrWeakCredential
	}
	var hasDigit, hasUpper, hasPunct bool
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case strings.ContainsRune(credentialPunctuation, r):
			hasPunct = true
		}
	}
	if !hasDigit || !hasUpper || !hasPunct {
		return ErrWeakCredential
	}
	return nil
}

type CreateUserCommand struct {
	LoginName     string
	RawCredential string
	Role          domain.Role

	// SkipCredentialPolicy lets demo seeders install accounts with weak
	// credentials; regular signups always enforce the policy.
	SkipCredentialPolicy bool
}
