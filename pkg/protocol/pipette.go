package protocol

import (
	"errors"
	"fmt"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/labware"
)

var (
	ErrTipHeld       = errors.New("pipette already holds a tip")
	ErrNoTip         = errors.New("pipette holds no tip")
	ErrTipsExhausted = errors.New("all bound tipracks are exhausted")
)

// Pipette is the run's single multichannel instrument. It emits commands
// into its protocol context rather than moving hardware, and enforces
// the tip invariant: aspirate, dispense and mix need a held tip, pickup
// needs a free nozzle.
type Pipette struct {
	Model labware.Name
	Mount labware.Mount

	ctx     *Context
	racks   []*Tiprack
	rackIdx int
	hasTip  bool
}

// PickUpTip draws the next fresh tip column, advancing to the next bound
// rack when the current one runs dry.
func (p *Pipette) PickUpTip() error {
	if p.hasTip {
		return ErrTipHeld
	}
	for p.rackIdx < len(p.racks) {
		rack := p.racks[p.rackIdx]
		if rack.tips.TakeColumn() {
			p.hasTip = true
			p.ctx.emit(Command{Op: OpPickUpTip, Slot: rack.Slot})
			return nil
		}
		p.rackIdx++
	}
	return ErrTipsExhausted
}

// DropTip discards the held tip into the trash.
func (p *Pipette) DropTip() error {
	if !p.hasTip {
		return fmt.Errorf("drop tip: %w", ErrNoTip)
	}
	p.hasTip = false
	p.ctx.emit(Command{Op: OpDropTip, Slot: deck.TrashSlot})
	return nil
}

// Aspirate draws volume from the given well.
func (p *Pipette) Aspirate(volume float64, w Well) error {
	if !p.hasTip {
		return fmt.Errorf("aspirate: %w", ErrNoTip)
	}
	p.ctx.emit(Command{Op: OpAspirate, Volume: volume, Slot: w.Slot, Well: w.Name})
	return nil
}

// Dispense pushes volume into the given well.
func (p *Pipette) Dispense(volume float64, w Well) error {
	if !p.hasTip {
		return fmt.Errorf("dispense: %w", ErrNoTip)
	}
	p.ctx.emit(Command{Op: OpDispense, Volume: volume, Slot: w.Slot, Well: w.Name})
	return nil
}

// MixAt mixes in the named well at the vendor's default rate.
func (p *Pipette) MixAt(repetitions int, volume float64, w Well) error {
	if !p.hasTip {
		return fmt.Errorf("mix: %w", ErrNoTip)
	}
	p.ctx.emit(Command{Op: OpMix, Repetitions: repetitions, Volume: volume, Slot: w.Slot, Well: w.Name})
	return nil
}

// Mix mixes at the pipette's current position, wherever the previous
// command left it, with the given rate multiplier (1.0 is the vendor
// default speed). No well is recorded so the robot resolves the
// position itself.
func (p *Pipette) Mix(repetitions int, volume float64, rate float64) error {
	if !p.hasTip {
		return fmt.Errorf("mix: %w", ErrNoTip)
	}
	p.ctx.emit(Command{Op: OpMix, Repetitions: repetitions, Volume: volume, Rate: rate})
	return nil
}
