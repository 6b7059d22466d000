// Package protocol builds the command sequence for a serial-dilution run:
// it loads labware onto the deck, attaches the pipette, and emits the
// per-column mix/aspirate/dispense steps. Execution is left to pkg/run.
package protocol

import (
	"errors"
	"fmt"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/labware"
)

var (
	ErrSlotOccupied   = errors.New("deck slot already occupied")
	ErrInstrumentBusy = errors.New("instrument already loaded")
)

// Well addresses a single well on a loaded plate.
type Well struct {
	Slot deck.Slot
	Name string
}

// Plate is a well plate bound to a deck slot for the duration of a run.
type Plate struct {
	Type labware.Name
	Slot deck.Slot
}

// Well returns the well at (column, row) on this plate.
func (p *Plate) Well(column, row int) Well {
	return Well{Slot: p.Slot, Name: labware.WellName(column, row)}
}

// Tiprack is a rack of disposable tips bound to a deck slot. Tips are
// consumed during a run and never replenished.
type Tiprack struct {
	Type labware.Name
	Slot deck.Slot
	tips labware.Tips
}

// Remaining returns the unused tip columns left in the rack.
func (t *Tiprack) Remaining() int {
	return t.tips.Remaining()
}

// Context tracks what is loaded on the deck during one run. Loading is
// idempotent per slot: a slot holds at most one piece of labware, and
// the trash slot holds nothing.
type Context struct {
	slots    map[deck.Slot]labware.Name
	pipette  *Pipette
	commands []Command
}

func NewContext() *Context {
	return &Context{slots: make(map[deck.Slot]labware.Name)}
}

func (c *Context) occupy(name labware.Name, slot deck.Slot) error {
	if slot < deck.FirstSlot || slot > deck.TrashSlot {
		return fmt.Errorf("slot %d out of range", slot)
	}
	if slot == deck.TrashSlot {
		return fmt.Errorf("slot %d holds the trash bin", slot)
	}
	if held, ok := c.slots[slot]; ok {
		return fmt.Errorf("%w: slot %d holds %s", ErrSlotOccupied, slot, held)
	}
	c.slots[slot] = name
	return nil
}

// LoadPlate loads a plate of the given catalog type into a slot.
func (c *Context) LoadPlate(typ labware.Name, slot deck.Slot) (*Plate, error) {
	if err := c.occupy(typ, slot); err != nil {
		return nil, fmt.Errorf("load plate: %w", err)
	}
	return &Plate{Type: typ, Slot: slot}, nil
}

// LoadTiprack loads a full tiprack of the given catalog type into a slot.
func (c *Context) LoadTiprack(typ labware.Name, slot deck.Slot) (*Tiprack, error) {
	if err := c.occupy(typ, slot); err != nil {
		return nil, fmt.Errorf("load tiprack: %w", err)
	}
	return &Tiprack{Type: typ, Slot: slot, tips: labware.NewTips()}, nil
}

// LoadInstrument attaches the run's single multichannel pipette and
// binds it to the given racks. Tips are drawn from the racks in order.
func (c *Context) LoadInstrument(model labware.Name, mount labware.Mount, racks []*Tiprack) (*Pipette, error) {
	if c.pipette != nil {
		return nil, ErrInstrumentBusy
	}
	if len(racks) == 0 {
		return nil, fmt.Errorf("load instrument: no tipracks bound")
	}
	c.pipette = &Pipette{
		Model: model,
		Mount: mount,
		ctx:   c,
		racks: racks,
	}
	return c.pipette, nil
}

// Commands returns the sequence emitted so far.
func (c *Context) Commands() []Command {
	return c.commands
}

func (c *Context) emit(cmd Command) {
	c.commands = append(c.commands, cmd)
}
