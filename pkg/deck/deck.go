// Package deck models the robot's 12-slot deck and the fixed placement
// table for multi-instance serial dilutions.
package deck

import (
	"errors"
	"fmt"

	"github.com/gwillem/pipet/pkg/labware"
)

// Slot is a deck position, numbered 1 to 12.
//
//	************    ************
//	* 10 11 12 *    * T2 P2 XX *
//	* 7  8  9  *    * P3 T1 P1 *
//	* 4  5  6  *    * T3 P4 T4 *
//	* 1  2  3  *    * P6 T5 P5 *
//	************    ************
//
// Slot 12 holds the fixed trash bin and is never assignable.
type Slot int

const (
	FirstSlot Slot = 1
	TrashSlot Slot = 12
)

// Placement assigns one dilution instance its plate slot and, when the
// deck has room, its own tiprack slot. Tiprack 0 means the instance has
// no rack of its own: with six instances the deck fits only five racks
// next to the trash.
type Placement struct {
	Plate   Slot
	Tiprack Slot
}

var (
	ErrInstanceCount    = errors.New("instances must be between 1 and 6")
	ErrInsufficientTips = errors.New("not enough tipracks for the requested columns")
)

// levels holds the placement registered at each instance count, from six
// down to one. Registration for count N starts at level N and falls
// through to one, so the order here is load order and must not change:
// plate index i in a run addresses levels[6-N+i].
var levels = []Placement{
	{Plate: 1},               // six: plate only, rack slots are spent
	{Plate: 3, Tiprack: 2},   // five
	{Plate: 5, Tiprack: 6},   // four
	{Plate: 7, Tiprack: 4},   // three
	{Plate: 11, Tiprack: 10}, // two
	{Plate: 9, Tiprack: 8},   // one
}

// LayoutFor returns the ordered placements for the given instance count.
// Layouts nest: LayoutFor(n)[1:] equals LayoutFor(n-1), each count
// prepending one placement to the previous layout.
func LayoutFor(instances int) ([]Placement, error) {
	if instances < 1 || instances > len(levels) {
		return nil, fmt.Errorf("%w: got %d", ErrInstanceCount, instances)
	}
	layout := make([]Placement, instances)
	copy(layout, levels[len(levels)-instances:])
	return layout, nil
}

// Level returns the level number (1-6) of placement index i within a
// layout for the given instance count. Level numbers match the deck
// diagram labels: P6 is the plate registered at level six.
func Level(instances, i int) int {
	return instances - i
}

// CheckCapacity verifies the racks in the layout can supply the whole
// run. Each instance uses one tip column for the initial mix plus one
// per column transfer.
func CheckCapacity(instances, filledColumns int) error {
	racks := instances
	if instances == len(levels) {
		racks-- // level six brings no rack of its own
	}
	need := instances * filledColumns
	if need > racks*labware.TiprackColumns {
		return fmt.Errorf("%w: %d instances x %d columns needs %d tip columns, %d racks hold %d",
			ErrInsufficientTips, instances, filledColumns, need, racks, racks*labware.TiprackColumns)
	}
	return nil
}

// GridRows returns the deck slots by physical row, back of the robot
// first, for rendering.
func GridRows() [][]Slot {
	return [][]Slot{
		{10, 11, 12},
		{7, 8, 9},
		{4, 5, 6},
		{1, 2, 3},
	}
}
