package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/labware"
)

func testPipette(t *testing.T, rackSlots ...deck.Slot) (*Context, *Pipette) {
	t.Helper()
	ctx := NewContext()
	racks := make([]*Tiprack, 0, len(rackSlots))
	for _, slot := range rackSlots {
		rack, err := ctx.LoadTiprack(labware.FilterTiprack200, slot)
		require.NoError(t, err)
		racks = append(racks, rack)
	}
	pip, err := ctx.LoadInstrument(labware.P300MultiGen2, labware.MountRight, racks)
	require.NoError(t, err)
	return ctx, pip
}

func TestPipette_TipInvariant(t *testing.T) {
	_, pip := testPipette(t, 8)
	well := Well{Slot: 9, Name: "A1"}

	// No tip held yet: liquid ops refuse, drop refuses.
	assert.ErrorIs(t, pip.Aspirate(20, well), ErrNoTip)
	assert.ErrorIs(t, pip.Dispense(20, well), ErrNoTip)
	assert.ErrorIs(t, pip.Mix(15, 20, 1.0), ErrNoTip)
	assert.ErrorIs(t, pip.MixAt(15, 20, well), ErrNoTip)
	assert.ErrorIs(t, pip.DropTip(), ErrNoTip)

	require.NoError(t, pip.PickUpTip())
	assert.ErrorIs(t, pip.PickUpTip(), ErrTipHeld)
	assert.NoError(t, pip.Aspirate(20, well))
	assert.NoError(t, pip.Dispense(20, well))
	assert.NoError(t, pip.DropTip())
}

func TestPipette_AdvancesAcrossRacks(t *testing.T) {
	ctx, pip := testPipette(t, 8, 10)

	// Drain the first rack plus one more column.
	for i := 0; i < labware.TiprackColumns+1; i++ {
		require.NoError(t, pip.PickUpTip())
		require.NoError(t, pip.DropTip())
	}

	commands := ctx.Commands()
	var pickups []deck.Slot
	for _, cmd := range commands {
		if cmd.Op == OpPickUpTip {
			pickups = append(pickups, cmd.Slot)
		}
	}
	require.Len(t, pickups, labware.TiprackColumns+1)
	for _, slot := range pickups[:labware.TiprackColumns] {
		assert.Equal(t, deck.Slot(8), slot)
	}
	assert.Equal(t, deck.Slot(10), pickups[labware.TiprackColumns])
}

func TestPipette_Exhaustion(t *testing.T) {
	_, pip := testPipette(t, 8)

	for i := 0; i < labware.TiprackColumns; i++ {
		require.NoError(t, pip.PickUpTip())
		require.NoError(t, pip.DropTip())
	}
	assert.ErrorIs(t, pip.PickUpTip(), ErrTipsExhausted)
}

func TestPipette_DropGoesToTrash(t *testing.T) {
	ctx, pip := testPipette(t, 8)
	require.NoError(t, pip.PickUpTip())
	require.NoError(t, pip.DropTip())

	commands := ctx.Commands()
	require.Len(t, commands, 2)
	assert.Equal(t, deck.TrashSlot, commands[1].Slot)
}
