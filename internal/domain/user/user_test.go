package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medremind/medremind/internal/domain"
)

func TestValidateCredential(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		wantErr    error
	}{
		{"valid", "Str0ng!pass", nil},
		{"seven chars rejected", "Ab1!cde", ErrWeakCredential},
		{"seven multibyte chars rejected", "Aé1!xyz", ErrWeakCredential},
		{"exactly eight accepted", "Ab1!cdef", nil},
		{"eight multibyte chars accepted", "Aé1!wxyz", nil},
		{"missing digit", "Strong!pass", ErrWeakCredential},
		{"missing uppercase", "str0ng!pass", ErrWeakCredential},
		{"missing punctuation", "Str0ngpass", ErrWeakCredential},
		{"all requirements at boundaries", "aaaaaA1.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredential(tt.credential)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestInitialVerificationState(t *testing.T) {
	assert.Equal(t, VerificationApproved, InitialVerificationState(domain.RolePatient))
	assert.Equal(t, VerificationApproved, InitialVerificationState(domain.RoleGuardian))
	assert.Equal(t, VerificationPending, InitialVerificationState(domain.RoleDoctor))
}
