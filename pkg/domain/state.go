package domain

import "time"

// RunStatus defines the current mode of a protocol run.
type RunStatus string

const (
	RunActive    RunStatus = "active"    // Steps are being executed
	RunPaused    RunStatus = "paused"    // Waiting for operator confirmation
	RunCompleted RunStatus = "completed" // Every step executed
	RunAborted   RunStatus = "aborted"   // Stopped on a fatal error
)

// RunState is the persisted snapshot of one protocol run.
// It is written for end-of-run review and to resume an interrupted run.
type RunState struct {
	RunID    string    `json:"run_id"`
	Protocol string    `json:"protocol"`
	Status   RunStatus `json:"status"`

	// Simulate is true for dry runs, where operator pauses are logged and auto-confirmed.
	Simulate bool `json:"simulate"`

	// Step is the index of the next protocol step to execute.
	Step int `json:"step"`

	Reservoirs []Reservoir `json:"reservoirs"`
	Pools      []TipPool   `json:"pools"`

	// Failure holds the fatal error message when Status is RunAborted.
	Failure string `json:"failure,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRunState creates an active run snapshot.
func NewRunState(runID, protocol string) *RunState {
	now := time.Now().UTC()
	return &RunState{
		RunID:     runID,
		Protocol:  protocol,
		Status:    RunActive,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Terminal reports whether the run cannot continue.
func (s *RunState) Terminal() bool {
	return s.Status == RunCompleted || s.Status == RunAborted
}

// Clone returns a deep copy of the snapshot.
func (s *RunState) Clone() *RunState {
	c := *s
	c.Reservoirs = make([]Reservoir, len(s.Reservoirs))
	for i := range s.Reservoirs {
		c.Reservoirs[i] = s.Reservoirs[i].Clone()
	}
	c.Pools = append([]TipPool(nil), s.Pools...)
	return &c
}
