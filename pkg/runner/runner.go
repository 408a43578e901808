package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/wellplan"
	"github.com/aretw0/wellplan/pkg/config"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/ports"
)

// Runner executes a protocol step by step against a Planner.
// It turns every step into hardware commands for the Dispatcher, stops for the Operator when a
// tip pool runs dry or the protocol asks for a checkpoint, and snapshots the run after each step.
type Runner struct {
	Protocol *config.Protocol

	// Store checkpoints the run. If nil, the run is ephemeral and cannot be resumed.
	Store ports.RunStore

	// Locker guards the run ID. If nil, no lock is taken.
	Locker ports.RunLocker

	// Dispatcher receives the planned commands. If nil, commands are only logged.
	Dispatcher ports.Dispatcher

	// Operator answers replenish and checkpoint requests. Required unless simulating.
	Operator ports.Operator

	Logger   *slog.Logger
	Hooks    domain.LifecycleHooks
	Simulate bool
	RunID    string

	initialState *domain.RunState
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a Runner for the protocol.
func NewRunner(protocol *config.Protocol, opts ...Option) *Runner {
	r := &Runner{Protocol: protocol}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.sleep == nil {
		r.sleep = sleepContext
	}
	return r
}

// run is the mutable state of one Run call.
type run struct {
	planner *wellplan.Planner
	state   *domain.RunState
	logger  *slog.Logger

	// checkpoint is the state at the start of the current step.
	checkpoint *domain.RunState
}

// Run executes the protocol from the first pending step to the end.
//
// The returned state is always the last persisted snapshot, also on error. A run stopped by a
// declined replenish or a canceled context is left paused and can be resumed with
// WithInitialState; any other error aborts it.
func (r *Runner) Run(ctx context.Context) (*domain.RunState, error) {
	if r.Protocol == nil {
		return nil, fmt.Errorf("protocol is required")
	}
	simulate := r.Simulate || r.Protocol.Simulate
	if !simulate && r.Operator == nil {
		return nil, fmt.Errorf("an operator is required unless simulating")
	}

	cur, err := r.prepare(simulate)
	if err != nil {
		return nil, err
	}

	if r.Locker != nil {
		unlock, err := r.Locker.Lock(ctx, cur.state.RunID, DefaultLockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock run %s: %w", cur.state.RunID, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				cur.logger.Warn("failed to release run lock", "err", err)
			}
		}()
	}

	cur.state.Status = domain.RunActive
	cur.state.Failure = ""
	if err := r.save(ctx, cur.state); err != nil {
		return cur.state, err
	}
	cur.logger.Info("run started", "step", cur.state.Step, "steps", len(r.Protocol.Steps), "simulate", simulate)

	for i := cur.state.Step; i < len(r.Protocol.Steps); i++ {
		step := r.Protocol.Steps[i]
		label := step.Label(i)
		checkpoint := cur.state.Clone()
		cur.checkpoint = checkpoint

		cur.logger.Debug("step", "index", i, "step", label, "action", step.Action)
		for n := 0; n < step.Times(); n++ {
			if err := r.execute(ctx, cur, i, step, simulate); err != nil {
				return r.stop(ctx, cur, checkpoint, fmt.Errorf("step %s: %w", label, err))
			}
		}

		cur.state.Status = domain.RunActive
		r.capture(cur, i+1)
		if err := r.save(ctx, cur.state); err != nil {
			return cur.state, err
		}
	}

	cur.state.Status = domain.RunCompleted
	if err := r.save(ctx, cur.state); err != nil {
		return cur.state, err
	}
	cur.logger.Info("run completed", "steps", len(r.Protocol.Steps))
	return cur.state, nil
}

// prepare builds the planner for a fresh run or restores it from the initial state.
func (r *Runner) prepare(simulate bool) (*run, error) {
	opts := []wellplan.Option{
		wellplan.WithLogger(r.Logger),
		wellplan.WithLifecycleHooks(r.Hooks),
	}

	if r.initialState != nil {
		state := r.initialState.Clone()
		if state.Protocol != r.Protocol.Name {
			return nil, &domain.InvalidRequestError{
				Op: "resume", Subject: state.RunID,
				Reason: fmt.Sprintf("run belongs to protocol %q, not %q", state.Protocol, r.Protocol.Name),
			}
		}
		if state.Terminal() {
			return nil, &domain.InvalidRequestError{
				Op: "resume", Subject: state.RunID,
				Reason: fmt.Sprintf("run is already %s", state.Status),
			}
		}
		planner, err := wellplan.NewFromState(state, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to resume run %s: %w", state.RunID, err)
		}
		state.Simulate = simulate
		return &run{planner: planner, state: state, logger: r.Logger.With("run_id", state.RunID)}, nil
	}

	id := r.RunID
	if id == "" {
		id = NewRunID(r.Protocol.Name)
	}
	opts = append(opts, wellplan.WithName(r.Protocol.Name), wellplan.WithRunID(id))
	planner, err := wellplan.New(r.Protocol.Reagents, r.Protocol.Pools, opts...)
	if err != nil {
		return nil, err
	}
	state := planner.Snapshot()
	state.Simulate = simulate
	return &run{planner: planner, state: state, logger: r.Logger.With("run_id", id)}, nil
}

// NewRunID derives a run identifier from the protocol name and the current time.
func NewRunID(protocol string) string {
	if protocol == "" {
		protocol = "run"
	}
	return fmt.Sprintf("%s-%s", protocol, time.Now().UTC().Format("20060102-150405"))
}

// stop persists a failed step. The run rolls back to the snapshot taken before the step so that
// a resume replays the whole step.
func (r *Runner) stop(ctx context.Context, cur *run, checkpoint *domain.RunState, err error) (*domain.RunState, error) {
	state := checkpoint
	state.UpdatedAt = time.Now().UTC()

	if resumable(err) {
		state.Status = domain.RunPaused
		cur.logger.Warn("run paused", "step", state.Step, "err", err)
	} else {
		state.Status = domain.RunAborted
		state.Failure = err.Error()
		cur.logger.Error("run aborted", "step", state.Step, "err", err)
	}
	cur.state = state

	if saveErr := r.save(context.WithoutCancel(ctx), state); saveErr != nil {
		return state, errors.Join(err, saveErr)
	}
	return state, err
}

func resumable(err error) bool {
	return errors.Is(err, domain.ErrResourceExhausted) ||
		errors.Is(err, ErrOperatorDeclined) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// capture copies the planner records into the run state and records the next step.
func (r *Runner) capture(cur *run, next int) {
	snap := cur.planner.Snapshot()
	cur.state.Reservoirs = snap.Reservoirs
	cur.state.Pools = snap.Pools
	cur.state.Step = next
	cur.state.UpdatedAt = time.Now().UTC()
}

func (r *Runner) save(ctx context.Context, state *domain.RunState) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Save(ctx, state); err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	r.Logger.Debug("run saved", "run_id", state.RunID, "step", state.Step, "status", state.Status)
	return nil
}

func (r *Runner) dispatch(ctx context.Context, cur *run, cmd domain.Command) error {
	cur.logger.Debug("command", "type", cmd.Type, "step", cmd.Step)
	if r.Dispatcher == nil {
		return nil
	}
	if err := r.Dispatcher.Dispatch(ctx, cmd); err != nil {
		return fmt.Errorf("dispatch %s: %w", cmd.Type, err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
