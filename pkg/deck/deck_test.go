package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutFor_DistinctSlots(t *testing.T) {
	for instances := 1; instances <= 6; instances++ {
		layout, err := LayoutFor(instances)
		require.NoError(t, err)
		require.Len(t, layout, instances)

		seen := make(map[Slot]bool)
		for _, p := range layout {
			assert.False(t, seen[p.Plate], "instances=%d: plate slot %d reused", instances, p.Plate)
			seen[p.Plate] = true
			assert.NotEqual(t, TrashSlot, p.Plate)
			if p.Tiprack != 0 {
				assert.False(t, seen[p.Tiprack], "instances=%d: tiprack slot %d reused", instances, p.Tiprack)
				seen[p.Tiprack] = true
				assert.NotEqual(t, TrashSlot, p.Tiprack)
			}
		}
	}
}

func TestLayoutFor_Nesting(t *testing.T) {
	// Each count prepends one placement to the layout below it.
	for instances := 2; instances <= 6; instances++ {
		larger, err := LayoutFor(instances)
		require.NoError(t, err)
		smaller, err := LayoutFor(instances - 1)
		require.NoError(t, err)
		assert.Equal(t, smaller, larger[1:], "instances=%d", instances)
	}
}

func TestLayoutFor_RegistrationOrder(t *testing.T) {
	// Full layout matches the original deck diagram, level six first.
	layout, err := LayoutFor(6)
	require.NoError(t, err)

	expected := []Placement{
		{Plate: 1},
		{Plate: 3, Tiprack: 2},
		{Plate: 5, Tiprack: 6},
		{Plate: 7, Tiprack: 4},
		{Plate: 11, Tiprack: 10},
		{Plate: 9, Tiprack: 8},
	}
	assert.Equal(t, expected, layout)

	// Only level six goes without its own rack.
	assert.Equal(t, Slot(0), layout[0].Tiprack)
	for _, p := range layout[1:] {
		assert.NotEqual(t, Slot(0), p.Tiprack)
	}
}

func TestLayoutFor_InvalidCount(t *testing.T) {
	for _, instances := range []int{-1, 0, 7, 100} {
		layout, err := LayoutFor(instances)
		assert.ErrorIs(t, err, ErrInstanceCount, "instances=%d", instances)
		assert.Nil(t, layout)
	}
}

func TestLevel(t *testing.T) {
	// For three instances the first plate registered is P3.
	assert.Equal(t, 3, Level(3, 0))
	assert.Equal(t, 1, Level(3, 2))
	assert.Equal(t, 6, Level(6, 0))
}

func TestCheckCapacity(t *testing.T) {
	// Six instances share five racks: 10 columns fit, 11 do not.
	assert.NoError(t, CheckCapacity(6, 10))
	assert.ErrorIs(t, CheckCapacity(6, 11), ErrInsufficientTips)

	// Below six instances every rack is dedicated, so 12 columns always fit.
	for instances := 1; instances <= 5; instances++ {
		assert.NoError(t, CheckCapacity(instances, 12), "instances=%d", instances)
	}
}

func TestGridRows(t *testing.T) {
	rows := GridRows()
	require.Len(t, rows, 4)

	seen := make(map[Slot]bool)
	for _, row := range rows {
		require.Len(t, row, 3)
		for _, s := range row {
			seen[s] = true
		}
	}
	for s := Slot(1); s <= 12; s++ {
		assert.True(t, seen[s], "slot %d missing from grid", s)
	}
}
