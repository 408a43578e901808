package domain

import (
	"fmt"
	"math"
)

// HeightPolicy selects how the cone of a well bottom is accounted for when
// turning a remaining volume into a pickup height.
type HeightPolicy string

const (
	// PolicyVolumeOnly subtracts only the cone volume before dividing by the cross section.
	PolicyVolumeOnly HeightPolicy = "volume_only"

	// PolicySubtractConeHeight additionally subtracts the cone height from the geometric level.
	PolicySubtractConeHeight HeightPolicy = "subtract_cone_height"
)

// Valid reports whether p is a known policy. The empty policy is valid and means PolicyVolumeOnly.
func (p HeightPolicy) Valid() bool {
	switch p {
	case "", PolicyVolumeOnly, PolicySubtractConeHeight:
		return true
	}
	return false
}

// Geometry describes the liquid-holding shape of one reservoir well.
type Geometry struct {
	// CrossSectionArea is the horizontal area of the prismatic part of the well (mm²).
	CrossSectionArea float64 `json:"cross_section_area" yaml:"cross_section_area" mapstructure:"cross_section_area"`

	// ConeVolume is the liquid volume held by the non-cylindrical bottom (µl). Zero for flat wells.
	ConeVolume float64 `json:"cone_volume" yaml:"cone_volume" mapstructure:"cone_volume"`

	// ConeHeight is the height of the non-cylindrical bottom (mm). Zero for flat wells.
	ConeHeight float64 `json:"cone_height" yaml:"cone_height" mapstructure:"cone_height"`
}

// ReservoirSpec is the static configuration of one reagent supply.
type ReservoirSpec struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	TotalVolume float64  `json:"total_volume" yaml:"total_volume" mapstructure:"total_volume"`
	WellCount   int      `json:"well_count" yaml:"well_count" mapstructure:"well_count"`
	Wells       []string `json:"wells,omitempty" yaml:"wells,omitempty" mapstructure:"wells"`
	Geometry    Geometry `json:"geometry" yaml:"geometry" mapstructure:"geometry"`

	// HeightPolicy defaults to PolicyVolumeOnly when empty.
	HeightPolicy HeightPolicy `json:"height_policy,omitempty" yaml:"height_policy,omitempty" mapstructure:"height_policy"`

	// Rinse requires a priming mix before the first draw from every freshly opened well.
	Rinse bool `json:"rinse,omitempty" yaml:"rinse,omitempty" mapstructure:"rinse"`

	// ReserveBuffer and MinHeight are per-reagent defaults used when a request leaves them unset.
	ReserveBuffer float64 `json:"reserve_buffer,omitempty" yaml:"reserve_buffer,omitempty" mapstructure:"reserve_buffer"`
	MinHeight     float64 `json:"min_height,omitempty" yaml:"min_height,omitempty" mapstructure:"min_height"`
}

// Validate checks the static invariants of the spec.
func (s ReservoirSpec) Validate() error {
	switch {
	case s.Name == "":
		return &InvalidRequestError{Op: "register", Subject: "reservoir", Reason: "name is required"}
	case s.WellCount < 1:
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: fmt.Sprintf("well_count must be >= 1, got %d", s.WellCount)}
	case !finitePositive(s.TotalVolume):
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: fmt.Sprintf("total_volume must be a finite value > 0, got %g", s.TotalVolume)}
	case !finitePositive(s.Geometry.CrossSectionArea):
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: fmt.Sprintf("cross_section_area must be a finite value > 0, got %g", s.Geometry.CrossSectionArea)}
	case !finiteNonNegative(s.Geometry.ConeVolume) || !finiteNonNegative(s.Geometry.ConeHeight):
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: "cone geometry must be finite and not negative"}
	case len(s.Wells) > 0 && len(s.Wells) != s.WellCount:
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: fmt.Sprintf("%d well labels for %d wells", len(s.Wells), s.WellCount)}
	case !s.HeightPolicy.Valid():
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: fmt.Sprintf("unknown height_policy %q", s.HeightPolicy)}
	case !finiteNonNegative(s.ReserveBuffer) || !finiteNonNegative(s.MinHeight):
		return &InvalidRequestError{Op: "register", Subject: s.Name, Reason: "reserve_buffer and min_height must be finite and not negative"}
	}
	return nil
}

// The comparisons are written so that NaN fails them.
func finitePositive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func finiteNonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }

// Reservoir is the tracked volume state of one reagent supply during a run.
type Reservoir struct {
	ReservoirSpec `yaml:",inline" mapstructure:",squash"`

	CurrentWellIndex int       `json:"current_well_index" yaml:"current_well_index" mapstructure:"current_well_index"`
	CurrentVolume    float64   `json:"current_volume" yaml:"current_volume" mapstructure:"current_volume"`
	DepletedWellLog  []float64 `json:"depleted_well_log" yaml:"depleted_well_log" mapstructure:"depleted_well_log"`

	// Aspirated and Aspirations are running totals across all wells.
	Aspirated   float64 `json:"aspirated" yaml:"aspirated" mapstructure:"aspirated"`
	Aspirations int     `json:"aspirations" yaml:"aspirations" mapstructure:"aspirations"`

	// RolledOver is true when the most recent draw opened a new well.
	RolledOver bool `json:"rolled_over" yaml:"rolled_over" mapstructure:"rolled_over"`
}

// NewReservoir opens the first well of spec at its nominal volume.
func NewReservoir(spec ReservoirSpec) *Reservoir {
	r := &Reservoir{
		ReservoirSpec:   spec,
		DepletedWellLog: []float64{},
	}
	r.CurrentVolume = r.VolumePerWell()
	return r
}

// VolumePerWell is the nominal volume of a freshly opened well.
func (r *Reservoir) VolumePerWell() float64 {
	if r.WellCount < 1 {
		return 0
	}
	return r.TotalVolume / float64(r.WellCount)
}

// Policy returns the effective height policy.
func (r *Reservoir) Policy() HeightPolicy {
	if r.HeightPolicy == "" {
		return PolicyVolumeOnly
	}
	return r.HeightPolicy
}

// LastWell reports whether the reservoir is drawing from its final configured well.
func (r *Reservoir) LastWell() bool {
	return r.CurrentWellIndex >= r.WellCount-1
}

// Well returns a reference to the well currently being drawn from.
func (r *Reservoir) Well() WellRef {
	ref := WellRef{Reservoir: r.Name, Index: r.CurrentWellIndex}
	if r.CurrentWellIndex < len(r.Wells) {
		ref.Label = r.Wells[r.CurrentWellIndex]
	}
	return ref
}

// RemainingTotal is the volume left in the open well plus every unopened well.
func (r *Reservoir) RemainingTotal() float64 {
	unopened := r.WellCount - 1 - r.CurrentWellIndex
	if unopened < 0 {
		unopened = 0
	}
	return r.CurrentVolume + float64(unopened)*r.VolumePerWell()
}

// Clone returns a deep copy safe to hand to callers.
func (r *Reservoir) Clone() Reservoir {
	c := *r
	c.Wells = append([]string(nil), r.Wells...)
	c.DepletedWellLog = append([]float64{}, r.DepletedWellLog...)
	return c
}

// WellRef identifies a physical well of a reservoir.
type WellRef struct {
	Reservoir string `json:"reservoir"`
	Index     int    `json:"index"`
	Label     string `json:"label,omitempty"`
}

func (w WellRef) String() string {
	if w.Label != "" {
		return fmt.Sprintf("%s[%d:%s]", w.Reservoir, w.Index, w.Label)
	}
	return fmt.Sprintf("%s[%d]", w.Reservoir, w.Index)
}

// Pickup is the planned draw for one aspiration.
type Pickup struct {
	Well      WellRef `json:"well"`
	Volume    float64 `json:"volume"`
	Height    float64 `json:"height"`
	Rollover  bool    `json:"rollover"`
	Remaining float64 `json:"remaining"`
}
