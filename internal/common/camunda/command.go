// internal/common/camunda/command.go
package camunda

import (
	"context"
	"time"
)

// CommandTimeout bounds a complete, fail or throw command.
const CommandTimeout = 10 * time.Second

// CommandContext returns the context a job's final command is sent on. It
// keeps the values of ctx but not its deadline: a job that ran out of time
// must still be able to report that it failed.
func CommandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), CommandTimeout)
}
