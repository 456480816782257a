package medicine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired_ComparesCalendarDaysOnly(t *testing.T) {
	today := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	m := &Medicine{ExpiryDate: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)}
	assert.False(t, m.IsExpired(today), "expiring today is not yet expired")

	m.ExpiryDate = time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	assert.True(t, m.IsExpired(today))

	m.ExpiryDate = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	assert.False(t, m.IsExpired(today))
}

func TestIntakeTimingIsValid(t *testing.T) {
	assert.True(t, TimingBeforeFood.IsValid())
	assert.True(t, TimingAfterFood.IsValid())
	assert.True(t, TimingWithFood.IsValid())
	assert.False(t, IntakeTiming("During Food").IsValid())
	assert.False(t, IntakeTiming("").IsValid())
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range []Category{CategoryGeneral, CategoryAntibiotic, CategoryPainkiller, CategoryVitamin, CategoryOther} {
		assert.True(t, c.IsValid(), string(c))
	}
	assert.False(t, Category("Supplement").IsValid())
}
