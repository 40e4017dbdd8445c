package process

import (
	"context"

	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/provider"
)

// Runner runs subprocesses through a shared resilience chain, so repeated
// crashes of the same tool trip its circuit breaker.
type Runner struct {
	name  string
	state *provider.ResilienceState
	log   *logger.Logger
}

// NewRunner creates a Runner. Nil policies in cfg are skipped.
func NewRunner(name string, cfg provider.ResilienceConfig, log *logger.Logger) *Runner {
	return &Runner{
		name:  name,
		state: provider.BuildResilience(name, cfg),
		log:   logger.OrDefault(log, "process"),
	}
}

// Name returns the runner name.
func (r *Runner) Name() string { return r.name }

// Run executes cmd. A non-zero exit is logged with the tail of stderr.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	result, err := provider.ExecuteWithResilience(ctx, r.state, func(ctx context.Context) (*Result, error) {
		res, err := Run(ctx, cmd)
		if err != nil {
			r.log.WithContext(ctx).Warn("subprocess failed", logger.Fields(
				"command", cmd.String(),
				"exit_code", res.exitCode(),
				"stderr", res.StderrTail(5),
				logger.FieldError, err.Error(),
			))
		}
		return res, err
	})
	if err != nil {
		return result, err
	}
	r.log.WithContext(ctx).Debug("subprocess finished", logger.DurationFields(r.name, result.Duration))
	return result, nil
}

func (r *Result) exitCode() int {
	if r == nil {
		return -1
	}
	return r.ExitCode
}
