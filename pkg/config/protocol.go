package config

import (
	"strconv"

	"github.com/aretw0/wellplan/pkg/domain"
)

// StepAction names what a protocol step does.
type StepAction string

const (
	ActionPickTip   StepAction = "pick_tip"
	ActionReturnTip StepAction = "return_tip"
	ActionDropTip   StepAction = "drop_tip"
	ActionAspirate  StepAction = "aspirate"
	ActionDispense  StepAction = "dispense"
	ActionMix       StepAction = "mix"
	ActionPause     StepAction = "pause"
	ActionDelay     StepAction = "delay"
	ActionComment   StepAction = "comment"
)

// Known reports whether a is a supported action.
func (a StepAction) Known() bool {
	switch a {
	case ActionPickTip, ActionReturnTip, ActionDropTip, ActionAspirate, ActionDispense,
		ActionMix, ActionPause, ActionDelay, ActionComment:
		return true
	}
	return false
}

// UsesPool reports whether the action consumes or returns tips.
func (a StepAction) UsesPool() bool {
	return a == ActionPickTip || a == ActionReturnTip || a == ActionDropTip
}

// Protocol is one station script: the labware loaded on the deck and the steps to run.
type Protocol struct {
	Name        string                 `mapstructure:"name" json:"name"`
	Description string                 `mapstructure:"description" json:"description,omitempty"`
	Simulate    bool                   `mapstructure:"simulate" json:"simulate"`
	Defaults    Defaults               `mapstructure:"defaults" json:"defaults"`
	Reagents    []domain.ReservoirSpec `mapstructure:"reagents" json:"reagents"`
	Pools       []domain.PoolSpec      `mapstructure:"pools" json:"pools"`
	Steps       []Step                 `mapstructure:"steps" json:"steps"`
}

// Defaults fill in values that reagents and steps leave unset.
type Defaults struct {
	MinHeight     float64 `mapstructure:"min_height" json:"min_height,omitempty"`
	ReserveBuffer float64 `mapstructure:"reserve_buffer" json:"reserve_buffer,omitempty"`
	Pool          string  `mapstructure:"pool" json:"pool,omitempty"`

	// PrimeCycles is the number of mix cycles inserted before drawing from a fresh rinse well.
	PrimeCycles int `mapstructure:"prime_cycles" json:"prime_cycles,omitempty"`
}

// Step is one protocol instruction. Which fields matter depends on Action.
type Step struct {
	Name    string     `mapstructure:"name" json:"name,omitempty"`
	Action  StepAction `mapstructure:"action" json:"action"`
	Pool    string     `mapstructure:"pool" json:"pool,omitempty"`
	Reagent string     `mapstructure:"reagent" json:"reagent,omitempty"`
	Target  string     `mapstructure:"target" json:"target,omitempty"`
	Volume  float64    `mapstructure:"volume" json:"volume,omitempty"`
	Cycles  int        `mapstructure:"cycles" json:"cycles,omitempty"`
	Seconds float64    `mapstructure:"seconds" json:"seconds,omitempty"`
	Message string     `mapstructure:"message" json:"message,omitempty"`

	// MinHeight and ReserveBuffer override the reagent defaults for this step only.
	MinHeight     *float64 `mapstructure:"min_height" json:"min_height,omitempty"`
	ReserveBuffer *float64 `mapstructure:"reserve_buffer" json:"reserve_buffer,omitempty"`

	// Repeat runs the step this many times; zero means once.
	Repeat int `mapstructure:"repeat" json:"repeat,omitempty"`
}

// Times is the number of executions of the step.
func (s Step) Times() int {
	if s.Repeat < 1 {
		return 1
	}
	return s.Repeat
}

// Label names the step for logs and errors.
func (s Step) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Action) + "#" + strconv.Itoa(index)
}

// Reagent returns the named reagent spec.
func (p *Protocol) Reagent(name string) (domain.ReservoirSpec, bool) {
	for _, r := range p.Reagents {
		if r.Name == name {
			return r, true
		}
	}
	return domain.ReservoirSpec{}, false
}

// Pool returns the named pool spec.
func (p *Protocol) Pool(name string) (domain.PoolSpec, bool) {
	for _, s := range p.Pools {
		if s.Name == name {
			return s, true
		}
	}
	return domain.PoolSpec{}, false
}

// applyDefaults pushes protocol-wide defaults into steps that left them unset.
// Reagent defaults are seeded on the raw document by seedReagentDefaults, where an explicit zero
// can still be told apart from a missing key.
func (p *Protocol) applyDefaults() {
	for i := range p.Steps {
		s := &p.Steps[i]
		if s.Action.UsesPool() && s.Pool == "" {
			s.Pool = p.Defaults.Pool
		}
	}
	if p.Defaults.PrimeCycles == 0 {
		p.Defaults.PrimeCycles = DefaultPrimeCycles
	}
}

// DefaultPrimeCycles is used when a protocol does not set defaults.prime_cycles.
const DefaultPrimeCycles = 3
