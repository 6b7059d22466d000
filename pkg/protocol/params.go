package protocol

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/labware"
)

const DefaultParamsFile = "pipet.json"

// Params holds the parameters for one dilution run. Volumes are in
// microliters; MixRate multiplies the vendor's default aspirate and
// dispense speed (1.0 is the default, 2.0 twice as fast).
type Params struct {
	Instances      int          `json:"instances"`
	FilledColumns  int          `json:"filled_columns"`
	TiprackType    labware.Name `json:"tiprack_type"`
	PlateType      labware.Name `json:"plate_type"`
	PipetteType    labware.Name `json:"pipette_type"`
	DilutionVolume float64      `json:"dilution_volume"`
	MixRepetitions int          `json:"mix_repetitions"`
	MixVolume      float64      `json:"mix_volume"`
	MixRate        float64      `json:"mix_rate"`
}

// DefaultParams returns the standard 10X dilution setup. Instances is
// left at zero and must be set before building a plan.
func DefaultParams() Params {
	return Params{
		FilledColumns:  6,
		TiprackType:    labware.FilterTiprack200,
		PlateType:      labware.WellPlate360Flat,
		PipetteType:    labware.P300MultiGen2,
		DilutionVolume: 20,
		MixRepetitions: 15,
		MixVolume:      20,
		MixRate:        1.0,
	}
}

// LoadParams loads parameters from the default params file.
func LoadParams() (Params, error) {
	return LoadParamsFrom(DefaultParamsFile)
}

// LoadParamsFrom loads parameters from a specific file. Fields absent
// from the file keep their defaults.
func LoadParamsFrom(path string) (Params, error) {
	params := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return params, err
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("parse params: %w", err)
	}
	return params, nil
}

// SaveTo writes the parameters to a file as indented JSON.
func (p Params) SaveTo(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the parameters before any labware is loaded. An
// out-of-range instance count is fatal to the run; nothing may touch
// the deck after it.
func (p Params) Validate() error {
	if _, err := deck.LayoutFor(p.Instances); err != nil {
		return err
	}
	if p.FilledColumns < 1 || p.FilledColumns > labware.PlateColumns {
		return fmt.Errorf("filled columns must be between 1 and %d: got %d",
			labware.PlateColumns, p.FilledColumns)
	}
	if err := deck.CheckCapacity(p.Instances, p.FilledColumns); err != nil {
		return err
	}
	if p.DilutionVolume <= 0 || p.MixVolume <= 0 {
		return fmt.Errorf("volumes must be positive")
	}
	if p.MixRepetitions < 1 {
		return fmt.Errorf("mix repetitions must be at least 1: got %d", p.MixRepetitions)
	}
	if p.MixRate <= 0 {
		return fmt.Errorf("mix rate must be positive: got %v", p.MixRate)
	}
	return nil
}
