package run

import (
	"context"
	"sync"
	"time"

	"github.com/gwillem/pipet/pkg/protocol"
)

// Trace is an Executor that records commands instead of driving
// hardware. Used for dry runs and tests. An optional delay paces the
// run so a live view stays watchable.
type Trace struct {
	Delay time.Duration

	mu   sync.Mutex
	cmds []protocol.Command
}

func (t *Trace) Execute(ctx context.Context, cmd protocol.Command) error {
	if t.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.Delay):
		}
	}
	t.mu.Lock()
	t.cmds = append(t.cmds, cmd)
	t.mu.Unlock()
	return nil
}

// Commands returns the commands executed so far.
func (t *Trace) Commands() []protocol.Command {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]protocol.Command, len(t.cmds))
	copy(out, t.cmds)
	return out
}
