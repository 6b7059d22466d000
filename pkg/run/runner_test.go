package run

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/pipet/pkg/deck"
	"github.com/gwillem/pipet/pkg/protocol"
)

func testPlan(t *testing.T, instances int) *protocol.Plan {
	t.Helper()
	params := protocol.DefaultParams()
	params.Instances = instances
	plan, err := protocol.Build(params)
	require.NoError(t, err)
	return plan
}

func TestRunner_ExecutesAllCommandsInOrder(t *testing.T) {
	plan := testPlan(t, 2)
	trace := &Trace{}
	runner, err := NewRunner(Config{Plan: plan, Executor: trace})
	require.NoError(t, err)
	require.NotEmpty(t, runner.ID())

	// Drain states so the runner never stalls on a full channel.
	done := make(chan struct{})
	go func() {
		for range runner.States() {
		}
		close(done)
	}()

	require.NoError(t, runner.Start(context.Background()))
	assert.Equal(t, plan.Commands, trace.Commands())
}

func TestRunner_TracksDispensedVolume(t *testing.T) {
	plan := testPlan(t, 1)
	runner, err := NewRunner(Config{Plan: plan, Executor: &Trace{}})
	require.NoError(t, err)

	var last State
	done := make(chan struct{})
	go func() {
		for s := range runner.States() {
			if s.Dispensed != nil {
				last = s
			}
			if s.Step == s.Total {
				break
			}
		}
		close(done)
	}()

	require.NoError(t, runner.Start(context.Background()))
	<-done

	// One instance, six columns: five transfers of 20 uL into slot 9.
	assert.Equal(t, 100.0, last.Dispensed[deck.Slot(9)])
}

func TestRunner_AbortsOnExecutorError(t *testing.T) {
	plan := testPlan(t, 1)
	failAt := 4
	exec := &failingExecutor{failAt: failAt}
	runner, err := NewRunner(Config{Plan: plan, Executor: exec})
	require.NoError(t, err)

	go func() {
		for range runner.States() {
		}
	}()

	err = runner.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	// Nothing past the failing step runs.
	assert.Equal(t, failAt, exec.calls)
}

func TestRunner_Canceled(t *testing.T) {
	plan := testPlan(t, 1)
	runner, err := NewRunner(Config{Plan: plan, Executor: &Trace{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = runner.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_RequiresPlanAndExecutor(t *testing.T) {
	_, err := NewRunner(Config{Executor: &Trace{}})
	assert.Error(t, err)
	_, err = NewRunner(Config{Plan: testPlan(t, 1)})
	assert.Error(t, err)
}

var errBoom = errors.New("boom")

type failingExecutor struct {
	calls  int
	failAt int // 1-based call number that fails
}

func (f *failingExecutor) Execute(ctx context.Context, cmd protocol.Command) error {
	f.calls++
	if f.calls == f.failAt {
		return errBoom
	}
	return nil
}
