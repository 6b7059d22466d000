// Package pipet configures and runs 10X serial dilutions on an OT-2 class
// liquid-handling robot.
//
// A run drives up to six dilution series at once: each series gets one
// 96-well plate and (deck space permitting) one tiprack, laid out on the
// robot's 12-slot deck by a fixed placement table. A single 8-channel
// pipette works through each plate column by column, transferring and
// mixing with a fresh tip per step.
//
// # Installation
//
//	go install github.com/gwillem/pipet/cmd/pipet@latest
//
// # Usage
//
// Preview the deck layout and command sequence:
//
//	pipet deck -n 3
//	pipet plan -n 3
//
// Then run it against the robot (or --dry-run without one):
//
//	pipet run -n 3 --host 169.254.1.2
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/pipet: CLI with deck, plan and run commands
//   - pkg/labware: plate, tiprack and pipette catalog types
//   - pkg/deck: deck slots and the instance placement table
//   - pkg/protocol: protocol parameters and command sequence building
//   - pkg/run: run engine and robot-server executor
package pipet
