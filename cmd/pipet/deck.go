package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/pipet/pkg/deck"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	plateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tiprackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	trashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
)

type DeckCommand struct {
	Instances int `short:"n" long:"instances" description:"Number of dilution instances (1-6)"`
}

func (c *DeckCommand) Execute(args []string) error {
	layout, err := deck.LayoutFor(c.Instances)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Deck layout for %d instance(s)", c.Instances)))
	fmt.Println()
	fmt.Println(renderDeck(c.Instances, layout))
	fmt.Println()

	for i, p := range layout {
		level := deck.Level(c.Instances, i)
		if p.Tiprack != 0 {
			fmt.Printf("  P%d: plate slot %-2d  T%d: tiprack slot %d\n", level, p.Plate, level, p.Tiprack)
		} else {
			fmt.Printf("  P%d: plate slot %-2d  (shares the other racks)\n", level, p.Plate)
		}
	}

	return nil
}

func renderDeck(instances int, layout []deck.Placement) string {
	labels := make(map[deck.Slot]string)
	plates := make(map[deck.Slot]bool)
	labels[deck.TrashSlot] = "trash"
	for i, p := range layout {
		level := deck.Level(instances, i)
		labels[p.Plate] = fmt.Sprintf("P%d", level)
		plates[p.Plate] = true
		if p.Tiprack != 0 {
			labels[p.Tiprack] = fmt.Sprintf("T%d", level)
		}
	}

	grid := deck.GridRows()
	rows := make([][]string, 0, len(grid))
	for _, gridRow := range grid {
		row := make([]string, 0, len(gridRow))
		for _, slot := range gridRow {
			label := labels[slot]
			if label == "" {
				label = "-"
			}
			row = append(row, fmt.Sprintf("%2d %-5s", slot, label))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
				return emptyStyle
			}
			slot := grid[row][col]
			switch {
			case slot == deck.TrashSlot:
				return trashStyle
			case plates[slot]:
				return plateStyle
			case labels[slot] != "":
				return tiprackStyle
			default:
				return emptyStyle
			}
		}).
		Render()
}
