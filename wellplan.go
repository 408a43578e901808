package wellplan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/wellplan/internal/runtime"
	"github.com/aretw0/wellplan/pkg/domain"
)

// Planner is the high-level entry point for the wellplan library.
// It wraps the reservoir ledger and the tip tracker of one run and adds logging and lifecycle hooks.
//
// A Planner is not safe for concurrent use. Protocol scripts call it sequentially between hardware
// commands, exactly like the robot executes them.
type Planner struct {
	ledger  *runtime.Ledger
	tracker *runtime.Tracker
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	runID   string
	Name    string
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Planner) {
		p.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the planner.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithName labels the planner, usually with the protocol name.
func WithName(name string) Option {
	return func(p *Planner) {
		p.Name = name
	}
}

// WithRunID tags every lifecycle event and log line with the run identifier.
func WithRunID(id string) Option {
	return func(p *Planner) {
		p.runID = id
	}
}

// New creates a Planner for a fresh run: every reservoir opens its first well at nominal volume
// and every pool starts with nothing consumed.
func New(reservoirs []domain.ReservoirSpec, pools []domain.PoolSpec, opts ...Option) (*Planner, error) {
	p := newPlanner(opts)

	for _, spec := range reservoirs {
		if err := p.ledger.Register(spec); err != nil {
			return nil, fmt.Errorf("reservoir %q: %w", spec.Name, err)
		}
	}
	for _, spec := range pools {
		if err := p.tracker.Register(spec); err != nil {
			return nil, fmt.Errorf("pool %q: %w", spec.Name, err)
		}
	}

	p.logger.Debug("planner ready", "reservoirs", len(reservoirs), "pools", len(pools))
	return p, nil
}

// NewFromState rebuilds a Planner from a snapshot, typically to resume an interrupted run.
// The run ID and protocol name of the snapshot are used unless overridden by options.
func NewFromState(state *domain.RunState, opts ...Option) (*Planner, error) {
	if state == nil {
		return nil, fmt.Errorf("state is required")
	}
	base := []Option{WithRunID(state.RunID), WithName(state.Protocol)}
	p := newPlanner(append(base, opts...))

	if err := p.ledger.Restore(state.Reservoirs); err != nil {
		return nil, fmt.Errorf("restore reservoirs: %w", err)
	}
	if err := p.tracker.Restore(state.Pools); err != nil {
		return nil, fmt.Errorf("restore pools: %w", err)
	}

	p.logger.Debug("planner restored", "step", state.Step)
	return p, nil
}

func newPlanner(opts []Option) *Planner {
	p := &Planner{
		ledger:  runtime.NewLedger(),
		tracker: runtime.NewTracker(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.Name != "" {
		p.logger = p.logger.With("protocol", p.Name)
	}
	if p.runID != "" {
		p.logger = p.logger.With("run_id", p.runID)
	}
	return p
}

// DrawOption adjusts a single aspiration.
type DrawOption func(*runtime.Draw)

// WithMinHeight overrides the reagent's safety floor for one draw.
func WithMinHeight(h float64) DrawOption {
	return func(d *runtime.Draw) {
		d.MinHeight = &h
	}
}

// WithReserveBuffer overrides the reagent's reserve buffer for one draw.
func WithReserveBuffer(v float64) DrawOption {
	return func(d *runtime.Draw) {
		d.ReserveBuffer = &v
	}
}

// Aspirate spends volume from the named reagent and returns the pickup to hand to the robot.
//
// When the open well cannot cover the draw the next well is opened and the pickup is flagged as a
// rollover. A *domain.SupplyExhaustedError means the last well is dry and the run must stop.
func (p *Planner) Aspirate(ctx context.Context, reagent string, volume float64, opts ...DrawOption) (domain.Pickup, error) {
	draw := runtime.Draw{Volume: volume}
	for _, opt := range opts {
		opt(&draw)
	}

	pickup, depleted, err := p.ledger.ComputeHeight(reagent, draw)
	if err != nil {
		var exhausted *domain.SupplyExhaustedError
		if errors.As(err, &exhausted) {
			p.logger.Warn("reagent supply exhausted",
				"reservoir", reagent, "well", exhausted.Well, "remaining", exhausted.Remaining, "volume", volume)
		} else {
			p.logger.Debug("aspirate rejected", "reservoir", reagent, "volume", volume, "err", err)
		}
		return domain.Pickup{}, err
	}

	p.logger.Debug("aspirate",
		"reservoir", reagent, "well", pickup.Well.Index, "volume", volume,
		"height", pickup.Height, "remaining", pickup.Remaining)

	evt := &domain.ReservoirEvent{
		EventBase: p.event(domain.EventAspirate),
		Pickup:    pickup,
	}
	if pickup.Rollover {
		p.logger.Info("reservoir well rollover",
			"reservoir", reagent, "well", pickup.Well.String(), "depleted", depleted)
		evt.Depleted = depleted
		if p.hooks.OnRollover != nil {
			rollover := *evt
			rollover.Type = domain.EventRollover
			p.hooks.OnRollover(ctx, &rollover)
		}
	}
	if p.hooks.OnAspirate != nil {
		p.hooks.OnAspirate(ctx, evt)
	}
	return pickup, nil
}

// NeedsPriming reports whether the pickup just returned by Aspirate hit an unmixed well of a rinse
// reagent (its first draw, or a rollover), so the host should mix there before aspirating.
// Query it right after Aspirate.
func (p *Planner) NeedsPriming(ctx context.Context, reagent string) (bool, error) {
	prime, err := p.ledger.NeedsPriming(reagent)
	if err != nil {
		return false, err
	}
	p.logger.Debug("needs priming", "reservoir", reagent, "prime", prime)
	return prime, nil
}

// RemainingTotal is the volume left in the open well plus every unopened well of the reagent.
func (p *Planner) RemainingTotal(ctx context.Context, reagent string) (float64, error) {
	total, err := p.ledger.RemainingTotal(reagent)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("remaining total", "reservoir", reagent, "volume", total)
	return total, nil
}

// CurrentWell returns the well the next draw of the reagent will use, barring rollover.
func (p *Planner) CurrentWell(ctx context.Context, reagent string) (domain.WellRef, error) {
	w, err := p.ledger.CurrentWell(reagent)
	if err != nil {
		return domain.WellRef{}, err
	}
	p.logger.Debug("current well", "reservoir", reagent, "well", w.String())
	return w, nil
}

// AcquireTip takes one unit from the pool.
// AcquireNeedsReplenishment is a normal result: the caller must pause for the operator and then
// call Replenish before trying again.
func (p *Planner) AcquireTip(ctx context.Context, pool string) (domain.AcquireResult, error) {
	res, err := p.tracker.Acquire(pool)
	if err != nil {
		return res, err
	}
	tp, err := p.tracker.Pool(pool)
	if err != nil {
		return res, err
	}

	evt := p.poolEvent(domain.EventTipAcquire, tp, 1)
	if res == domain.AcquireNeedsReplenishment {
		p.logger.Warn("pool exhausted", "pool", pool, "capacity", tp.Capacity)
		evt.Type = domain.EventPoolExhausted
		evt.Count = 0
		if p.hooks.OnExhausted != nil {
			p.hooks.OnExhausted(ctx, evt)
		}
		return res, nil
	}

	p.logger.Debug("tip acquired", "pool", pool, "consumed", tp.Consumed, "capacity", tp.Capacity)
	if p.hooks.OnAcquire != nil {
		p.hooks.OnAcquire(ctx, evt)
	}
	return res, nil
}

// Replenish records that the operator reloaded the pool.
func (p *Planner) Replenish(ctx context.Context, pool string) error {
	if err := p.tracker.Reset(pool); err != nil {
		return err
	}
	tp, err := p.tracker.Pool(pool)
	if err != nil {
		return err
	}
	p.logger.Info("pool replenished", "pool", pool, "replenishments", tp.Replenishments)
	if p.hooks.OnReset != nil {
		p.hooks.OnReset(ctx, p.poolEvent(domain.EventPoolReset, tp, 0))
	}
	return nil
}

// ReleaseTips hands count units back to the pool, for tips returned to their rack.
func (p *Planner) ReleaseTips(ctx context.Context, pool string, count int) error {
	if err := p.tracker.Release(pool, count); err != nil {
		return err
	}
	tp, err := p.tracker.Pool(pool)
	if err != nil {
		return err
	}
	p.logger.Debug("tips released", "pool", pool, "count", count, "consumed", tp.Consumed)
	if p.hooks.OnRelease != nil {
		p.hooks.OnRelease(ctx, p.poolEvent(domain.EventTipRelease, tp, count))
	}
	return nil
}

// Reservoir returns a copy of the named reagent's record.
func (p *Planner) Reservoir(reagent string) (domain.Reservoir, error) {
	return p.ledger.Reservoir(reagent)
}

// Pool returns a copy of the named pool's record.
func (p *Planner) Pool(pool string) (domain.TipPool, error) {
	return p.tracker.Pool(pool)
}

// Snapshot copies the current reservoirs and pools into an active RunState.
// Callers own the result and typically fill in Step and Status before persisting it.
func (p *Planner) Snapshot() *domain.RunState {
	state := domain.NewRunState(p.runID, p.Name)
	state.Reservoirs = p.ledger.Reservoirs()
	state.Pools = p.tracker.Pools()
	return state
}

// Report summarises reagent usage and tip consumption so far.
func (p *Planner) Report() domain.Report {
	return domain.BuildReport(p.Snapshot())
}

func (p *Planner) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now().UTC(),
		Type:      t,
		RunID:     p.runID,
	}
}

func (p *Planner) poolEvent(t domain.EventType, tp domain.TipPool, count int) *domain.PoolEvent {
	return &domain.PoolEvent{
		EventBase: p.event(t),
		Pool:      tp.Name,
		Consumed:  tp.Consumed,
		Capacity:  tp.Capacity,
		Count:     count,
	}
}
