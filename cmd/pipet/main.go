package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/gwillem/pipet/pkg/protocol"
)

type Options struct {
	Deck DeckCommand `command:"deck" description:"Show the deck layout for an instance count"`
	Plan PlanCommand `command:"plan" description:"Print the command sequence without executing"`
	Run  RunCommand  `command:"run" description:"Execute the dilution protocol"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	// Optional .env for PIPET_HOST and friends
	_ = godotenv.Load()

	parser.LongDescription = "Pipet - 10X serial dilution runner for OT-2 class liquid handlers"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

// ParamFlags are the protocol knobs shared by plan and run.
type ParamFlags struct {
	Instances  int     `short:"n" long:"instances" description:"Number of dilution instances (1-6)"`
	Columns    int     `long:"columns" description:"Columns to fill per plate (default 6)"`
	MixRate    float64 `long:"mix-rate" description:"Mix speed multiplier for the column mixes (default 1.0)"`
	ParamsFile string  `long:"params" description:"JSON params file; flags override its values"`
}

func (f *ParamFlags) params() (protocol.Params, error) {
	params := protocol.DefaultParams()
	if f.ParamsFile != "" {
		var err error
		params, err = protocol.LoadParamsFrom(f.ParamsFile)
		if err != nil {
			return params, err
		}
	}
	if f.Instances != 0 {
		params.Instances = f.Instances
	}
	if f.Columns != 0 {
		params.FilledColumns = f.Columns
	}
	if f.MixRate != 0 {
		params.MixRate = f.MixRate
	}
	return params, nil
}
