// Package run executes a built protocol plan against a robot executor.
package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/protocol"
)

// Executor carries one command out, typically against the robot server.
type Executor interface {
	Execute(ctx context.Context, cmd protocol.Command) error
}

// State is a snapshot of run progress published after each command.
type State struct {
	Step      int // 1-based index of the command just executed
	Total     int
	Command   protocol.Command
	Dispensed map[deck.Slot]float64 // cumulative volume per plate, uL
	Timestamp time.Time
	Err       error
}

// Runner drives a plan's command sequence through an executor, strictly
// in emission order. One command at a time, no retries: the first
// executor error aborts the run, since already-dispensed liquid cannot
// be rolled back.
type Runner struct {
	plan   *protocol.Plan
	exec   Executor
	id     string
	logger *zap.Logger

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
}

// Config holds configuration for the runner.
type Config struct {
	Plan     *protocol.Plan
	Executor Executor
	Logger   *zap.Logger // optional; defaults to a no-op logger
}

// NewRunner creates a runner for the given plan.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Plan == nil {
		return nil, fmt.Errorf("no plan")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("no executor")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		plan:    cfg.Plan,
		exec:    cfg.Executor,
		id:      xid.New().String(),
		logger:  logger,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// ID returns the unique run ID.
func (r *Runner) ID() string {
	return r.id
}

// States returns a channel that receives progress updates.
func (r *Runner) States() <-chan State {
	return r.stateCh
}

// Logs returns a channel that receives log messages.
func (r *Runner) Logs() <-chan string {
	return r.logCh
}

// Total returns the number of commands in the plan.
func (r *Runner) Total() int {
	return len(r.plan.Commands)
}

func (r *Runner) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case r.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start executes the plan from the first command to the last.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("already running")
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	total := len(r.plan.Commands)
	r.log("Run %s: %d instance(s), %d commands", r.id, r.plan.Params.Instances, total)
	r.logger.Info("run started",
		zap.String("run_id", r.id),
		zap.Int("instances", r.plan.Params.Instances),
		zap.Int("filled_columns", r.plan.Params.FilledColumns),
		zap.Int("commands", total))

	dispensed := make(map[deck.Slot]float64, len(r.plan.Plates))

	for i, cmd := range r.plan.Commands {
		select {
		case <-ctx.Done():
			r.log("Run canceled at step %d/%d", i, total)
			r.logger.Warn("run canceled", zap.String("run_id", r.id), zap.Int("step", i))
			return ctx.Err()
		default:
		}

		if err := r.exec.Execute(ctx, cmd); err != nil {
			err = fmt.Errorf("step %d/%d (%s): %w", i+1, total, cmd.Op, err)
			r.log("Error: %v", err)
			r.logger.Error("command failed",
				zap.String("run_id", r.id),
				zap.Int("step", i+1),
				zap.String("op", string(cmd.Op)),
				zap.Error(err))
			r.sendState(State{Step: i + 1, Total: total, Command: cmd, Err: err, Timestamp: time.Now()})
			return err
		}

		if cmd.Op == protocol.OpDispense {
			dispensed[cmd.Slot] += cmd.Volume
		}

		r.logger.Debug("command executed",
			zap.String("run_id", r.id),
			zap.Int("step", i+1),
			zap.String("op", string(cmd.Op)),
			zap.String("well", cmd.Well),
			zap.Int("slot", int(cmd.Slot)),
			zap.Float64("volume", cmd.Volume))
		r.log("%d/%d %s", i+1, total, cmd)

		r.sendState(State{
			Step:      i + 1,
			Total:     total,
			Command:   cmd,
			Dispensed: copyVolumes(dispensed),
			Timestamp: time.Now(),
		})
	}

	r.log("Run %s complete", r.id)
	r.logger.Info("run complete", zap.String("run_id", r.id))
	return nil
}

func (r *Runner) sendState(s State) {
	select {
	case r.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-r.stateCh:
		default:
		}
		r.stateCh <- s
	}
}

func copyVolumes(m map[deck.Slot]float64) map[deck.Slot]float64 {
	out := make(map[deck.Slot]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
