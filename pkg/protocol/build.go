package protocol

import (
	"fmt"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/labware"
)

// Plan is a fully configured run: the chosen layout, the loaded labware
// and the complete command sequence to execute.
type Plan struct {
	Params   Params
	Layout   []deck.Placement
	Plates   []*Plate
	Racks    []*Tiprack
	Commands []Command
}

// TipCycles returns the number of pickup/drop pairs in the plan.
func (p *Plan) TipCycles() int {
	n := 0
	for _, cmd := range p.Commands {
		if cmd.Op == OpPickUpTip {
			n++
		}
	}
	return n
}

// Build validates the parameters, loads labware for the selected layout,
// attaches the pipette and emits the full dilution sequence. Validation
// failures abort before anything is loaded.
func Build(params Params) (*Plan, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	layout, err := deck.LayoutFor(params.Instances)
	if err != nil {
		return nil, err
	}

	ctx := NewContext()
	plates := make([]*Plate, 0, len(layout))
	racks := make([]*Tiprack, 0, len(layout))
	for _, pl := range layout {
		if pl.Tiprack != 0 {
			rack, err := ctx.LoadTiprack(params.TiprackType, pl.Tiprack)
			if err != nil {
				return nil, err
			}
			racks = append(racks, rack)
		}
		plate, err := ctx.LoadPlate(params.PlateType, pl.Plate)
		if err != nil {
			return nil, err
		}
		plates = append(plates, plate)
	}

	pip, err := ctx.LoadInstrument(params.PipetteType, labware.MountRight, racks)
	if err != nil {
		return nil, err
	}

	for i, plate := range plates {
		if err := dilutionSeries(pip, plate, params); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i+1, err)
		}
	}

	return &Plan{
		Params:   params,
		Layout:   layout,
		Plates:   plates,
		Racks:    racks,
		Commands: ctx.Commands(),
	}, nil
}

// dilutionSeries emits one plate's worth of steps: mix the starting
// column, then chain each column into the next. Every step takes a
// fresh tip so no liquid carries over between dilutions.
func dilutionSeries(pip *Pipette, plate *Plate, params Params) error {
	if err := pip.PickUpTip(); err != nil {
		return err
	}
	if err := pip.MixAt(params.MixRepetitions, params.MixVolume, plate.Well(0, 0)); err != nil {
		return err
	}
	if err := pip.DropTip(); err != nil {
		return err
	}

	for j := 0; j < params.FilledColumns-1; j++ {
		if err := pip.PickUpTip(); err != nil {
			return err
		}
		if err := pip.Aspirate(params.DilutionVolume, plate.Well(j, 0)); err != nil {
			return err
		}
		if err := pip.Dispense(params.DilutionVolume, plate.Well(j+1, 0)); err != nil {
			return err
		}
		// Mix where the dispense left us, not at a named well.
		if err := pip.Mix(params.MixRepetitions, params.MixVolume, params.MixRate); err != nil {
			return err
		}
		if err := pip.DropTip(); err != nil {
			return err
		}
	}
	return nil
}
