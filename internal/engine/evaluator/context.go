// Package evaluator implements the group evaluator: cache hit/miss/worker-shortcut logic
// for a single group of tasks folded around one labelled terminal.
package evaluator

import (
	"context"
	"errors"
	"runtime/debug"

	"go.trai.ch/zerr"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/core/ports"
)

// destAcquisition is the dest directory's acquisition guard for one group evaluation,
// shared by every taskContext built inside the same runGroup call so that "acquired at
// most once" is enforced across the whole group, not per task. A group's tasks run
// sequentially in one goroutine, so no locking is needed here.
type destAcquisition struct {
	acquired bool
	owner    domain.TaskID
	stack    string
}

func (d *destAcquisition) acquire(caller domain.TaskID) error {
	if d.acquired {
		if caller == d.owner {
			return domain.ErrDestAlreadyAcquired
		}
		return zerr.With(
			zerr.Wrap(domain.ErrDestAlreadyAcquired, "dest already acquired by a different task in this group"),
			"ownerTask", d.owner,
			"ownerStack", d.stack,
		)
	}
	d.acquired = true
	d.owner = caller
	d.stack = string(debug.Stack())
	return nil
}

// taskContext is the concrete domain.Context every task body in a group runs with.
type taskContext struct {
	ctx       context.Context
	taskID    domain.TaskID
	inputs    []any
	dest      string
	destGuard *destAcquisition
	logger    ports.Logger
}

func (c *taskContext) Context() context.Context { return c.ctx }
func (c *taskContext) Input(i int) any          { return c.inputs[i] }
func (c *taskContext) Inputs() []any            { return c.inputs }

func (c *taskContext) Dest() (string, error) {
	if err := c.destGuard.acquire(c.taskID); err != nil {
		return "", err
	}
	return c.dest, nil
}

func (c *taskContext) Log(level domain.LogLevel, msg string, args ...any) {
	switch level {
	case domain.LogLevelError:
		c.logger.Error(errors.New(msg), args...)
	case domain.LogLevelDebug:
		c.logger.Debug(msg, args...)
	default:
		c.logger.Info(msg, args...)
	}
}
