//go:build unit

package amenity_test

import (
	"testing"
	"time"

	"resihub/internal/domain/amenity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefinition(t *testing.T, openMinute, closeMinute, slotMinutes int) *amenity.Definition {
	t.Helper()
	def, err := amenity.NewDefinition(uuid.New(), "Pool", openMinute, closeMinute, slotMinutes, 4, 50000, true)
	require.NoError(t, err)
	return def
}

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestDayGrid(t *testing.T) {
	t.Run("even grid", func(t *testing.T) {
		def := newDefinition(t, 8*60, 10*60, 60)
		grid := def.DayGrid(day(t))

		require.Len(t, grid, 2)
		assert.Equal(t, day(t).Add(8*time.Hour), grid[0].Start)
		assert.Equal(t, day(t).Add(9*time.Hour), grid[0].End)
		assert.Equal(t, day(t).Add(9*time.Hour), grid[1].Start)
		assert.Equal(t, day(t).Add(10*time.Hour), grid[1].End)
	})

	t.Run("trailing partial slot is dropped", func(t *testing.T) {
		// 08:00-09:30 with 60-minute slots: only 08:00-09:00 fits.
		def := newDefinition(t, 8*60, 9*60+30, 60)
		grid := def.DayGrid(day(t))

		require.Len(t, grid, 1)
		assert.Equal(t, day(t).Add(8*time.Hour), grid[0].Start)
		assert.Equal(t, day(t).Add(9*time.Hour), grid[0].End)
	})

	t.Run("window shorter than one slot yields empty grid", func(t *testing.T) {
		def := newDefinition(t, 8*60, 8*60+30, 60)
		assert.Empty(t, def.DayGrid(day(t)))
	})
}

func TestContainsSpan(t *testing.T) {
	def := newDefinition(t, 8*60, 20*60, 30)
	d := day(t)

	assert.True(t, def.ContainsSpan(d.Add(8*time.Hour), d.Add(9*time.Hour)))
	assert.True(t, def.ContainsSpan(d.Add(19*time.Hour+30*time.Minute), d.Add(20*time.Hour)))
	assert.False(t, def.ContainsSpan(d.Add(7*time.Hour+30*time.Minute), d.Add(8*time.Hour)))
	assert.False(t, def.ContainsSpan(d.Add(19*time.Hour+30*time.Minute), d.Add(20*time.Hour+30*time.Minute)))
}

func TestSlotCount(t *testing.T) {
	def := newDefinition(t, 8*60, 20*60, 30)
	d := day(t)

	assert.Equal(t, 2, def.SlotCount(d.Add(8*time.Hour), d.Add(9*time.Hour)))
	assert.Equal(t, 1, def.SlotCount(d.Add(8*time.Hour), d.Add(8*time.Hour+30*time.Minute)))
	assert.Equal(t, 0, def.SlotCount(d.Add(8*time.Hour), d.Add(8*time.Hour+45*time.Minute)))
	assert.Equal(t, 0, def.SlotCount(d.Add(9*time.Hour), d.Add(9*time.Hour)))
	assert.Equal(t, 0, def.SlotCount(d.Add(9*time.Hour), d.Add(8*time.Hour)))
}

func TestNewDefinitionValidation(t *testing.T) {
	_, err := amenity.NewDefinition(uuid.New(), "Gym", 10*60, 8*60, 60, 4, 1000, true)
	assert.ErrorIs(t, err, amenity.ErrInvalidOperatingHours)

	_, err = amenity.NewDefinition(uuid.New(), "Gym", 8*60, 10*60, 0, 4, 1000, true)
	assert.Error(t, err)

	_, err = amenity.NewDefinition(uuid.New(), "Gym", 8*60, 10*60, 60, 0, 1000, true)
	assert.Error(t, err)
}
