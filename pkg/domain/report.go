package domain

// ReagentReport summarises one reservoir at the end of (or during) a run.
type ReagentReport struct {
	Name        string    `json:"name"`
	Aspirated   float64   `json:"aspirated"`
	Aspirations int       `json:"aspirations"`
	WellsOpened int       `json:"wells_opened"`
	WellCount   int       `json:"well_count"`
	Leftovers   []float64 `json:"leftovers"`
	Remaining   float64   `json:"remaining"`
}

// PoolReport summarises one consumable pool.
type PoolReport struct {
	Name           string   `json:"name"`
	Kind           PoolKind `json:"kind"`
	Capacity       int      `json:"capacity"`
	Consumed       int      `json:"consumed"`
	TotalConsumed  int      `json:"total_consumed"`
	Replenishments int      `json:"replenishments"`
}

// Report is the reconciliation view of a run, built only from read-only state.
type Report struct {
	RunID    string          `json:"run_id,omitempty"`
	Protocol string          `json:"protocol,omitempty"`
	Status   RunStatus       `json:"status,omitempty"`
	Reagents []ReagentReport `json:"reagents"`
	Pools    []PoolReport    `json:"pools"`
}

// BuildReport derives a Report from a run snapshot.
func BuildReport(state *RunState) Report {
	rep := Report{
		RunID:    state.RunID,
		Protocol: state.Protocol,
		Status:   state.Status,
		Reagents: make([]ReagentReport, 0, len(state.Reservoirs)),
		Pools:    make([]PoolReport, 0, len(state.Pools)),
	}
	for i := range state.Reservoirs {
		r := &state.Reservoirs[i]
		rep.Reagents = append(rep.Reagents, ReagentReport{
			Name:        r.Name,
			Aspirated:   r.Aspirated,
			Aspirations: r.Aspirations,
			WellsOpened: r.CurrentWellIndex + 1,
			WellCount:   r.WellCount,
			Leftovers:   append([]float64{}, r.DepletedWellLog...),
			Remaining:   r.RemainingTotal(),
		})
	}
	for _, p := range state.Pools {
		rep.Pools = append(rep.Pools, PoolReport{
			Name:           p.Name,
			Kind:           p.Kind,
			Capacity:       p.Capacity,
			Consumed:       p.Consumed,
			TotalConsumed:  p.TotalConsumed,
			Replenishments: p.Replenishments,
		})
	}
	return rep
}
