package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/protocol"
	"github.com/gwillem/pipet/pkg/run"
)

type RunCommand struct {
	ParamFlags
	Host    string `long:"host" env:"PIPET_HOST" description:"Robot server host (IP or hostname)"`
	DryRun  bool   `long:"dry-run" description:"Trace commands without a robot"`
	Yes     bool   `short:"y" long:"yes" description:"Skip the confirmation prompt"`
	Debug   bool   `long:"debug" description:"Log commands at debug level"`
	LogFile string `long:"log-file" default:"pipet.log" description:"Structured run log destination"`
}

// Pace dry runs so the chart is watchable
const traceDelay = 50 * time.Millisecond

const (
	runHeaderHeight = 2 // title + blank line
	runLegendHeight = 2 // legend row + blank
	runFooterHeight = 7 // log box height
	runMaxLogs      = 5 // number of log messages to show
	runBorderSize   = 2 // chart border
)

// Plate colors by registration order - distinct per instance
var plateColors = []string{
	"196", // red
	"208", // orange
	"226", // yellow
	"46",  // green
	"51",  // cyan
	"201", // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (c *RunCommand) Execute(args []string) error {
	params, err := c.params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Build fails on a bad instance count before anything is loaded or
	// any command exists, so the robot is never touched.
	plan, err := protocol.Build(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var exec run.Executor
	if c.DryRun {
		exec = &run.Trace{Delay: traceDelay}
	} else {
		if c.Host == "" {
			fmt.Fprintln(os.Stderr, "No robot host. Set --host, PIPET_HOST, or use --dry-run.")
			os.Exit(1)
		}
		if !c.Yes {
			confirmRun(plan, c.Host)
		}
		exec = run.NewClient(c.Host)
	}

	logger, err := c.buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	runner, err := run.NewRunner(run.Config{
		Plan:     plan,
		Executor: exec,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create runner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := runner.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Runner error: %v", err)
		}
	}()

	p := tea.NewProgram(initialRunModel(runner, plan), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}

func (c *RunCommand) buildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{c.LogFile}
	cfg.ErrorOutputPaths = []string{c.LogFile}
	if c.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func confirmRun(plan *protocol.Plan, host string) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Run %d commands on %s?", len(plan.Commands), host)).
				Description(fmt.Sprintf("%d instance(s), %d tip cycles. Tips and reagents will be consumed.",
					plan.Params.Instances, plan.TipCycles())).
				Affirmative("Run").
				Negative("Abort").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	if !ok {
		fmt.Println("Aborted.")
		os.Exit(0)
	}
}

// Messages from the runner
type stateMsg run.State
type logMsg string

func waitForState(r *run.Runner) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-r.States())
	}
}

func waitForLog(r *run.Runner) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-r.Logs())
	}
}

type runModel struct {
	runner *run.Runner
	chart  *streamlinechart.Model
	labels map[deck.Slot]string // plate slot -> legend label
	order  []deck.Slot          // plate slots in registration order
	step   int
	total  int
	width  int
	height int
	logs   []string
	done   bool
	failed bool
}

func initialRunModel(runner *run.Runner, plan *protocol.Plan) runModel {
	// Full dilution chain dispenses this much into the last column's plate
	maxVol := plan.Params.DilutionVolume * float64(plan.Params.FilledColumns-1)
	if maxVol <= 0 {
		maxVol = plan.Params.DilutionVolume
	}
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, maxVol),
	)

	labels := make(map[deck.Slot]string, len(plan.Plates))
	order := make([]deck.Slot, 0, len(plan.Plates))
	for i, plate := range plan.Plates {
		label := fmt.Sprintf("P%d", deck.Level(plan.Params.Instances, i))
		labels[plate.Slot] = label
		order = append(order, plate.Slot)

		color := plateColors[i%len(plateColors)]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(label, runes.ThinLineStyle, style)
	}

	return runModel{
		runner: runner,
		chart:  &chart,
		labels: labels,
		order:  order,
		total:  runner.Total(),
	}
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > runMaxLogs {
		m.logs = m.logs[len(m.logs)-runMaxLogs:]
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *runModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - runBorderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - runHeaderHeight - runLegendHeight - runFooterHeight - runBorderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *runModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.runner),
		waitForLog(m.runner),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case stateMsg:
		state := run.State(msg)
		m.step = state.Step
		if state.Err != nil {
			m.failed = true
			m.done = true
			m.addLog(fmt.Sprintf("Error: %v", state.Err))
			return m, waitForLog(m.runner)
		}
		if state.Dispensed != nil {
			for _, slot := range m.order {
				m.chart.PushDataSet(m.labels[slot], state.Dispensed[slot])
			}
			m.chart.DrawAll()
		}
		if state.Step == state.Total {
			m.done = true
		}
		return m, waitForState(m.runner)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.runner)
	}

	return m, nil
}

func (m runModel) View() string {
	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Pipet Run"))
	sb.WriteString(fmt.Sprintf(" %s - step %d/%d", m.runner.ID(), m.step, m.total))
	switch {
	case m.failed:
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("  FAILED"))
	case m.done:
		sb.WriteString(successStyle.Render("  complete"))
	}
	sb.WriteString("\n\n")

	// Chart of dispensed volume per plate
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(m.renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	if m.done {
		sb.WriteString(statusStyle.Render("Press 'q' to exit"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m runModel) renderLegend() string {
	var items []string
	for i, slot := range m.order {
		color := plateColors[i%len(plateColors)]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + fmt.Sprintf(" %s (slot %d)", m.labels[slot], slot)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}
