package protocol

import (
	"fmt"

	"github.com/gwillem/pipet/pkg/deck"
)

// Op identifies one pipette operation.
type Op string

const (
	OpPickUpTip Op = "pick_up_tip"
	OpDropTip   Op = "drop_tip"
	OpAspirate  Op = "aspirate"
	OpDispense  Op = "dispense"
	OpMix       Op = "mix"
)

// Command is one step of a run, sent as-is to the robot server. A mix
// with an empty well operates wherever the pipette currently sits; a
// zero rate means the vendor's default speed.
type Command struct {
	Op          Op        `json:"op"`
	Volume      float64   `json:"volume,omitempty"`
	Repetitions int       `json:"repetitions,omitempty"`
	Rate        float64   `json:"rate,omitempty"`
	Slot        deck.Slot `json:"slot,omitempty"`
	Well        string    `json:"well,omitempty"`
}

func (c Command) String() string {
	switch c.Op {
	case OpPickUpTip:
		return fmt.Sprintf("pick up tip from slot %d", c.Slot)
	case OpDropTip:
		return "drop tip"
	case OpAspirate:
		return fmt.Sprintf("aspirate %g uL from %s (slot %d)", c.Volume, c.Well, c.Slot)
	case OpDispense:
		return fmt.Sprintf("dispense %g uL into %s (slot %d)", c.Volume, c.Well, c.Slot)
	case OpMix:
		if c.Well == "" {
			return fmt.Sprintf("mix %dx %g uL in place at rate %g", c.Repetitions, c.Volume, c.Rate)
		}
		return fmt.Sprintf("mix %dx %g uL in %s (slot %d)", c.Repetitions, c.Volume, c.Well, c.Slot)
	}
	return string(c.Op)
}
