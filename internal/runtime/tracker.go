package runtime

import (
	"fmt"

	"github.com/aretw0/wellplan/pkg/domain"
)

// Tracker owns the consumable pools of a run.
// A pool moves from available to exhausted when asked for a unit at capacity,
// and back only through Reset. There is no automatic replenishment.
type Tracker struct {
	pools map[string]*domain.TipPool
	order []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		pools: make(map[string]*domain.TipPool),
	}
}

// Register validates spec and adds an available pool.
func (t *Tracker) Register(spec domain.PoolSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, exists := t.pools[spec.Name]; exists {
		return &domain.InvalidRequestError{Op: "register", Subject: spec.Name, Reason: "pool already registered"}
	}
	t.pools[spec.Name] = domain.NewTipPool(spec)
	t.order = append(t.order, spec.Name)
	return nil
}

// Restore replaces the tracker content with previously snapshotted pools.
func (t *Tracker) Restore(pools []domain.TipPool) error {
	next := make(map[string]*domain.TipPool, len(pools))
	order := make([]string, 0, len(pools))
	for _, p := range pools {
		p := p
		if err := p.PoolSpec.Validate(); err != nil {
			return err
		}
		if p.Consumed < 0 || p.Consumed > p.Capacity {
			return &domain.InvalidRequestError{Op: "restore", Subject: p.Name, Reason: fmt.Sprintf("consumed %d outside 0..%d", p.Consumed, p.Capacity)}
		}
		if _, dup := next[p.Name]; dup {
			return &domain.InvalidRequestError{Op: "restore", Subject: p.Name, Reason: "duplicate pool"}
		}
		if p.Status == "" {
			p.Status = domain.PoolAvailable
		}
		next[p.Name] = &p
		order = append(order, p.Name)
	}
	t.pools = next
	t.order = order
	return nil
}

func (t *Tracker) lookup(op, name string) (*domain.TipPool, error) {
	p, ok := t.pools[name]
	if !ok {
		return nil, &domain.InvalidRequestError{Op: op, Subject: name, Reason: "unknown pool"}
	}
	return p, nil
}

// Acquire takes one unit from the pool, or reports that it needs replenishment.
// An exhausted pool keeps answering AcquireNeedsReplenishment until Reset, even when Release
// has since brought Consumed below Capacity.
func (t *Tracker) Acquire(name string) (domain.AcquireResult, error) {
	p, err := t.lookup("acquire", name)
	if err != nil {
		return domain.AcquireNeedsReplenishment, err
	}
	if p.Status == domain.PoolExhausted || p.Consumed >= p.Capacity {
		p.Status = domain.PoolExhausted
		return domain.AcquireNeedsReplenishment, nil
	}
	p.Consumed++
	p.TotalConsumed++
	return domain.AcquireOK, nil
}

// Reset records an operator reload: fresh racks are assumed present.
func (t *Tracker) Reset(name string) error {
	p, err := t.lookup("reset", name)
	if err != nil {
		return err
	}
	p.Consumed = 0
	p.Status = domain.PoolAvailable
	p.Replenishments++
	return nil
}

// Release hands count units back to the pool, never going below zero.
// It does not leave the exhausted state; only Reset does.
func (t *Tracker) Release(name string, count int) error {
	p, err := t.lookup("release", name)
	if err != nil {
		return err
	}
	if count < 0 {
		return &domain.InvalidRequestError{Op: "release", Subject: name, Reason: fmt.Sprintf("count must be >= 0, got %d", count)}
	}
	p.Consumed -= count
	if p.Consumed < 0 {
		p.Consumed = 0
	}
	return nil
}

// Pool returns a copy of the named pool.
func (t *Tracker) Pool(name string) (domain.TipPool, error) {
	p, err := t.lookup("get", name)
	if err != nil {
		return domain.TipPool{}, err
	}
	return *p, nil
}

// Pools returns copies of every pool in registration order.
func (t *Tracker) Pools() []domain.TipPool {
	out := make([]domain.TipPool, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.pools[name])
	}
	return out
}
