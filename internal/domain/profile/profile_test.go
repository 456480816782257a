package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@b.c", true},
		{"asha.k@example.co.in", true},
		{"a@b", false},
		{"a@@b.c", false},
		{"@b.c", false},
		{"a@.b.c", false},
		{"a@b.c.", false},
		{"a@b..c", false},
		{"plainaddress", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidEmail)
			}
		})
	}
}

func TestNormalizeAvailability(t *testing.T) {
	got, err := NormalizeAvailability([]string{"Fri", "Mon", "Fri", "Wed"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Mon", "Wed", "Fri"}, got)
}

func TestNormalizeAvailability_RejectsUnknownDay(t *testing.T) {
	_, err := NormalizeAvailability([]string{"Mon", "Funday"})
	assert.ErrorIs(t, err, ErrInvalidAvailability)
}

func TestNormalizeAvailability_EmptyIsAllowed(t *testing.T) {
	got, err := NormalizeAvailability(nil)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertCommandApply_LeavesAbsentFieldsUntouched(t *testing.T) {
	p := &Profile{FullName: "Asha", City: "Pune", Email: "a@b.c"}
	newCity := "Mumbai"
	cmd := &UpsertProfileCommand{City: &newCity}

	cmd.Apply(p)

	assert.Equal(t, "Asha", p.FullName)
	assert.Equal(t, "Mumbai", p.City)
	assert.Equal(t, "a@b.c", p.Email)
}

func TestUpsertCommandApply_ExplicitEmptyOverwrites(t *testing.T) {
	p := &Profile{Mobile: "9876543210"}
	empty := ""
	cmd := &UpsertProfileCommand{Mobile: &empty}

	cmd.Apply(p)

	assert.Empty(t, p.Mobile)
}
