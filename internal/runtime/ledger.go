package runtime

import "github.com/aretw0/wellplan/pkg/domain"

// Ledger owns the Reservoir records of a run and sequences every draw against them.
// It is not safe for concurrent use; protocol runs are strictly sequential.
type Ledger struct {
	reservoirs map[string]*domain.Reservoir
	order      []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		reservoirs: make(map[string]*domain.Reservoir),
	}
}

// Register validates spec and opens its first well.
func (l *Ledger) Register(spec domain.ReservoirSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, exists := l.reservoirs[spec.Name]; exists {
		return &domain.InvalidRequestError{Op: "register", Subject: spec.Name, Reason: "reservoir already registered"}
	}
	l.reservoirs[spec.Name] = domain.NewReservoir(spec)
	l.order = append(l.order, spec.Name)
	return nil
}

// Restore replaces the ledger content with previously snapshotted reservoirs.
func (l *Ledger) Restore(reservoirs []domain.Reservoir) error {
	next := make(map[string]*domain.Reservoir, len(reservoirs))
	order := make([]string, 0, len(reservoirs))
	for i := range reservoirs {
		r := reservoirs[i].Clone()
		if err := r.ReservoirSpec.Validate(); err != nil {
			return err
		}
		if r.CurrentWellIndex < 0 || r.CurrentWellIndex >= r.WellCount || r.CurrentVolume < 0 {
			return &domain.InvalidRequestError{Op: "restore", Subject: r.Name, Reason: "well state out of range"}
		}
		if _, dup := next[r.Name]; dup {
			return &domain.InvalidRequestError{Op: "restore", Subject: r.Name, Reason: "duplicate reservoir"}
		}
		next[r.Name] = &r
		order = append(order, r.Name)
	}
	l.reservoirs = next
	l.order = order
	return nil
}

func (l *Ledger) lookup(op, name string) (*domain.Reservoir, error) {
	r, ok := l.reservoirs[name]
	if !ok {
		return nil, &domain.InvalidRequestError{Op: op, Subject: name, Reason: "unknown reservoir"}
	}
	return r, nil
}

// Draw is a ledger request; nil fields fall back to the reservoir defaults.
type Draw struct {
	Volume        float64
	MinHeight     *float64
	ReserveBuffer *float64
}

// ComputeHeight spends the draw from the named reservoir and returns the planned pickup.
// The second value is the leftover logged for the abandoned well when the pickup rolled over.
func (l *Ledger) ComputeHeight(name string, d Draw) (domain.Pickup, float64, error) {
	r, err := l.lookup("aspirate", name)
	if err != nil {
		return domain.Pickup{}, 0, err
	}

	req := Request{
		Volume:        d.Volume,
		MinHeight:     r.MinHeight,
		ReserveBuffer: r.ReserveBuffer,
	}
	if d.MinHeight != nil {
		req.MinHeight = *d.MinHeight
	}
	if d.ReserveBuffer != nil {
		req.ReserveBuffer = *d.ReserveBuffer
	}

	pickup, err := Plan(r, req)
	if err != nil {
		return domain.Pickup{}, 0, err
	}

	var depleted float64
	if pickup.Rollover {
		depleted = r.DepletedWellLog[len(r.DepletedWellLog)-1]
	}
	return pickup, depleted, nil
}

// RemainingTotal is the volume left across the open and unopened wells.
func (l *Ledger) RemainingTotal(name string) (float64, error) {
	r, err := l.lookup("remaining_total", name)
	if err != nil {
		return 0, err
	}
	return r.RemainingTotal(), nil
}

// CurrentWell returns the well the next draw will come from, barring rollover.
func (l *Ledger) CurrentWell(name string) (domain.WellRef, error) {
	r, err := l.lookup("current_well", name)
	if err != nil {
		return domain.WellRef{}, err
	}
	return r.Well(), nil
}

// NeedsPriming reports whether the draw just planned by ComputeHeight hit an unmixed well of a
// rinse reagent: the first draw of the reagent, or a draw that opened a new well. Query it right
// after ComputeHeight. Before any draw it is true for rinse reagents.
func (l *Ledger) NeedsPriming(name string) (bool, error) {
	r, err := l.lookup("needs_priming", name)
	if err != nil {
		return false, err
	}
	return r.Rinse && (r.Aspirations <= 1 || r.RolledOver), nil
}

// Reservoir returns a copy of the named reservoir.
func (l *Ledger) Reservoir(name string) (domain.Reservoir, error) {
	r, err := l.lookup("get", name)
	if err != nil {
		return domain.Reservoir{}, err
	}
	return r.Clone(), nil
}

// Reservoirs returns copies of every reservoir in registration order.
func (l *Ledger) Reservoirs() []domain.Reservoir {
	out := make([]domain.Reservoir, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.reservoirs[name].Clone())
	}
	return out
}
