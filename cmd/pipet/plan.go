package main

import (
	"fmt"
	"os"

	"github.com/gwillem/pipet/pkg/protocol"
)

type PlanCommand struct {
	ParamFlags
}

func (c *PlanCommand) Execute(args []string) error {
	params, err := c.params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plan, err := protocol.Build(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(headerStyle.Render("Dilution plan"))
	fmt.Printf("  instances: %d   columns: %d   dilution: %g uL   mix: %dx %g uL (rate %g)\n",
		params.Instances, params.FilledColumns,
		params.DilutionVolume, params.MixRepetitions, params.MixVolume, params.MixRate)
	fmt.Printf("  %d commands, %d tip cycles\n", len(plan.Commands), plan.TipCycles())
	fmt.Println()

	for i, cmd := range plan.Commands {
		fmt.Printf("%s  %s\n", dimStyle.Render(fmt.Sprintf("%3d", i+1)), cmd)
	}

	return nil
}
