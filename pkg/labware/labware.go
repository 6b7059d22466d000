// Package labware provides the plate, tiprack and pipette catalog types
// used on the deck of a liquid-handling robot.
package labware

import "fmt"

// Name is a catalog identifier from the vendor's labware library.
type Name string

// Catalog names used by the standard dilution setup.
const (
	FilterTiprack200 Name = "opentrons_96_filtertiprack_200ul"
	WellPlate360Flat Name = "corning_96_wellplate_360ul_flat"
	P300MultiGen2    Name = "p300_multi_gen2"
)

// Mount identifies which side of the gantry an instrument hangs on.
type Mount string

const (
	MountLeft  Mount = "left"
	MountRight Mount = "right"
)

// Geometry of 96-format labware.
const (
	PlateRows      = 8
	PlateColumns   = 12
	TiprackColumns = 12
)

// WellName returns the canonical name of the well at (column, row),
// e.g. column 0 row 0 is "A1" and column 11 row 7 is "H12".
func WellName(column, row int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(row), column+1)
}

// Tips tracks the tip columns remaining in one rack. An 8-channel
// pipette consumes a full column per pickup.
type Tips struct {
	remaining int
}

// NewTips returns a full rack's worth of tips.
func NewTips() Tips {
	return Tips{remaining: TiprackColumns}
}

// TakeColumn consumes one tip column. Returns false when the rack is
// exhausted.
func (t *Tips) TakeColumn() bool {
	if t.remaining == 0 {
		return false
	}
	t.remaining--
	return true
}

// Remaining returns the number of unused tip columns.
func (t *Tips) Remaining() int {
	return t.remaining
}
