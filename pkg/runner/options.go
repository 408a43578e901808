package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed runner keeps other runners away from its run.
const DefaultLockTTL = 10 * time.Minute

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the RunStore used to checkpoint the run after every step.
func WithStore(store ports.RunStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLocker guards the run ID while the runner drives it.
func WithLocker(locker ports.RunLocker) Option {
	return func(r *Runner) {
		r.Locker = locker
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithDispatcher configures where planned hardware commands go.
func WithDispatcher(d ports.Dispatcher) Option {
	return func(r *Runner) {
		r.Dispatcher = d
	}
}

// WithOperator configures who confirms rack reloads and checkpoints.
func WithOperator(op ports.Operator) Option {
	return func(r *Runner) {
		r.Operator = op
	}
}

// WithHandler uses h both as Dispatcher and Operator.
func WithHandler(h Handler) Option {
	return func(r *Runner) {
		r.Dispatcher = h
		r.Operator = h
	}
}

// WithSimulate forces a dry run: delays are skipped and operator requests are auto-confirmed.
// A protocol that sets simulate: true is always simulated.
func WithSimulate(simulate bool) Option {
	return func(r *Runner) {
		r.Simulate = simulate
	}
}

// WithRunID sets the run identifier used for persistence and logs.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.RunID = id
	}
}

// WithInitialState resumes a previously checkpointed run instead of starting fresh.
func WithInitialState(state *domain.RunState) Option {
	return func(r *Runner) {
		r.initialState = state
	}
}

// WithLifecycleHooks forwards planner events, typically to metrics.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.Hooks = hooks
	}
}

// WithSleep replaces the delay timer. Tests use it to observe delays without waiting.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Runner) {
		r.sleep = sleep
	}
}
