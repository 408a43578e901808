package domain

import "fmt"

// PoolKind distinguishes disposable tips from reusable slots.
type PoolKind string

const (
	PoolTips      PoolKind = "tips"      // Tips dropped to waste after use
	PoolRecycling PoolKind = "recycling" // Slots reused several times before discard
)

// PoolStatus is the state of a TipPool's replenishment machine.
type PoolStatus string

const (
	PoolAvailable PoolStatus = "available"
	PoolExhausted PoolStatus = "exhausted"
)

// PoolSpec is the static configuration of a countable consumable.
// Capacity may be given directly or derived from Racks * TipsPerRack.
type PoolSpec struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Kind        PoolKind `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Capacity    int      `json:"capacity" yaml:"capacity" mapstructure:"capacity"`
	Racks       int      `json:"racks,omitempty" yaml:"racks,omitempty" mapstructure:"racks"`
	TipsPerRack int      `json:"tips_per_rack,omitempty" yaml:"tips_per_rack,omitempty" mapstructure:"tips_per_rack"`
}

// EffectiveCapacity resolves Capacity, falling back to the rack layout.
func (s PoolSpec) EffectiveCapacity() int {
	if s.Capacity > 0 {
		return s.Capacity
	}
	return s.Racks * s.TipsPerRack
}

// Validate checks the static invariants of the spec.
func (s PoolSpec) Validate() error {
	if s.Name == "" {
		return &InvalidRequestError{Op: "register", Subject: "pool", Reason: "name is required"}
	}
	if s.Capacity < 0 || s.Racks < 0 || s.TipsPerRack < 0 {
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: "capacity and rack counts must not be negative"}
	}
	if s.EffectiveCapacity() < 1 {
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: "capacity must be >= 1 (set capacity or racks and tips_per_rack)"}
	}
	switch s.Kind {
	case "", PoolTips, PoolRecycling:
	default:
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: fmt.Sprintf("unknown kind %q", s.Kind)}
	}
	return nil
}

// TipPool is the tracked consumption of one pool during a run.
type TipPool struct {
	PoolSpec `yaml:",inline" mapstructure:",squash"`

	Consumed       int        `json:"consumed" yaml:"consumed" mapstructure:"consumed"`
	Status         PoolStatus `json:"status" yaml:"status" mapstructure:"status"`
	Replenishments int        `json:"replenishments" yaml:"replenishments" mapstructure:"replenishments"`
	TotalConsumed  int        `json:"total_consumed" yaml:"total_consumed" mapstructure:"total_consumed"`
}

// NewTipPool creates an available pool with nothing consumed.
func NewTipPool(spec PoolSpec) *TipPool {
	if spec.Kind == "" {
		spec.Kind = PoolTips
	}
	spec.Capacity = spec.EffectiveCapacity()
	return &TipPool{
		PoolSpec: spec,
		Status:   PoolAvailable,
	}
}

// Remaining is the number of units left before replenishment.
func (p *TipPool) Remaining() int {
	return p.Capacity - p.Consumed
}

// AcquireResult is the outcome of asking a pool for one unit.
type AcquireResult int

const (
	// AcquireOK means a unit was taken from the pool.
	AcquireOK AcquireResult = iota
	// AcquireNeedsReplenishment means the pool is exhausted; an operator must reload and Reset it.
	AcquireNeedsReplenishment
)

func (r AcquireResult) String() string {
	switch r {
	case AcquireOK:
		return "ok"
	case AcquireNeedsReplenishment:
		return "needs_replenishment"
	default:
		return fmt.Sprintf("AcquireResult(%d)", int(r))
	}
}
