package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDoseTimes(t *testing.T) {
	tests := []struct {
		name        string
		dosesPerDay int
		times       []string
		wantErr     error
	}{
		{"single dose", 1, []string{"08:00"}, nil},
		{"max doses", 6, []string{"06:00", "09:00", "12:00", "15:00", "18:00", "21:00"}, nil},
		{"zero doses", 0, []string{}, ErrInvalidCardinality},
		{"above max", 7, []string{"01:00", "02:00", "03:00", "04:00", "05:00", "06:00", "07:00"}, ErrInvalidCardinality},
		{"count mismatch", 2, []string{"08:00"}, ErrInvalidCardinality},
		{"bad clock value", 1, []string{"25:00"}, ErrInvalidDoseTime},
		{"not a time", 1, []string{"morning"}, ErrInvalidDoseTime},
		{"midnight boundary", 1, []string{"00:00"}, nil},
		{"last minute of day", 1, []string{"23:59"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDoseTimes(tt.dosesPerDay, tt.times)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMealRelationIsValid(t *testing.T) {
	assert.True(t, MealBeforeEating.IsValid())
	assert.True(t, MealAfterEating.IsValid())
	assert.True(t, MealWithFood.IsValid())
	assert.False(t, MealRelation("While Eating").IsValid())
}

func TestScheduleIsActive(t *testing.T) {
	s := &Schedule{Status: StatusActive}
	assert.True(t, s.IsActive())

	s.Status = StatusPaused
	assert.False(t, s.IsActive())
}
