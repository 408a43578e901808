package domain_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() domain.ReservoirSpec {
	return domain.ReservoirSpec{
		Name:        "Ethanol",
		TotalVolume: 12000,
		WellCount:   4,
		Geometry:    domain.Geometry{CrossSectionArea: 720, ConeVolume: 40, ConeHeight: 1.5},
	}
}

func TestReservoirSpec_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ReservoirSpec)
		reason string
	}{
		{"valid", func(*domain.ReservoirSpec) {}, ""},
		{"missing name", func(s *domain.ReservoirSpec) { s.Name = "" }, "name is required"},
		{"no wells", func(s *domain.ReservoirSpec) { s.WellCount = 0 }, "well_count"},
		{"no volume", func(s *domain.ReservoirSpec) { s.TotalVolume = 0 }, "total_volume"},
		{"flat area", func(s *domain.ReservoirSpec) { s.Geometry.CrossSectionArea = 0 }, "cross_section_area"},
		{"negative cone", func(s *domain.ReservoirSpec) { s.Geometry.ConeVolume = -1 }, "cone geometry"},
		{"label mismatch", func(s *domain.ReservoirSpec) { s.Wells = []string{"A1"} }, "1 well labels for 4 wells"},
		{"unknown policy", func(s *domain.ReservoirSpec) { s.HeightPolicy = "guess" }, "height_policy"},
		{"negative floor", func(s *domain.ReservoirSpec) { s.MinHeight = -0.1 }, "min_height"},
		{"nan volume", func(s *domain.ReservoirSpec) { s.TotalVolume = math.NaN() }, "total_volume"},
		{"infinite volume", func(s *domain.ReservoirSpec) { s.TotalVolume = math.Inf(1) }, "total_volume"},
		{"nan area", func(s *domain.ReservoirSpec) { s.Geometry.CrossSectionArea = math.NaN() }, "cross_section_area"},
		{"infinite area", func(s *domain.ReservoirSpec) { s.Geometry.CrossSectionArea = math.Inf(1) }, "cross_section_area"},
		{"nan cone volume", func(s *domain.ReservoirSpec) { s.Geometry.ConeVolume = math.NaN() }, "cone geometry"},
		{"infinite cone height", func(s *domain.ReservoirSpec) { s.Geometry.ConeHeight = math.Inf(1) }, "cone geometry"},
		{"nan buffer", func(s *domain.ReservoirSpec) { s.ReserveBuffer = math.NaN() }, "reserve_buffer"},
		{"infinite floor", func(s *domain.ReservoirSpec) { s.MinHeight = math.Inf(1) }, "min_height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(&s)
			err := s.Validate()
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestNewReservoir(t *testing.T) {
	r := domain.NewReservoir(validSpec())

	assert.Equal(t, 3000.0, r.VolumePerWell())
	assert.Equal(t, 3000.0, r.CurrentVolume)
	assert.Equal(t, 0, r.CurrentWellIndex)
	assert.Empty(t, r.DepletedWellLog)
	assert.Equal(t, domain.PolicyVolumeOnly, r.Policy())
	assert.False(t, r.LastWell())
	assert.Equal(t, 12000.0, r.RemainingTotal())

	r.CurrentWellIndex = 3
	assert.True(t, r.LastWell())
}

func TestPoolSpec(t *testing.T) {
	assert.Equal(t, 96, domain.PoolSpec{Name: "t", Capacity: 96, Racks: 3, TipsPerRack: 96}.EffectiveCapacity(),
		"explicit capacity wins over the rack layout")
	assert.Equal(t, 288, domain.PoolSpec{Name: "t", Racks: 3, TipsPerRack: 96}.EffectiveCapacity())

	require.NoError(t, domain.PoolSpec{Name: "t", Racks: 1, TipsPerRack: 96}.Validate())
	require.ErrorIs(t, domain.PoolSpec{Capacity: 1}.Validate(), domain.ErrInvalidRequest)
	require.ErrorIs(t, domain.PoolSpec{Name: "t", Capacity: -1}.Validate(), domain.ErrInvalidRequest)

	p := domain.NewTipPool(domain.PoolSpec{Name: "t", Kind: domain.PoolRecycling, Racks: 1, TipsPerRack: 8})
	assert.Equal(t, 8, p.Capacity)
	assert.Equal(t, domain.PoolRecycling, p.Kind)
	assert.Equal(t, domain.PoolAvailable, p.Status)

	assert.Equal(t, "ok", domain.AcquireOK.String())
	assert.Equal(t, "needs_replenishment", domain.AcquireNeedsReplenishment.String())
}

func TestErrors(t *testing.T) {
	supply := fmt.Errorf("step 4: %w", &domain.SupplyExhaustedError{
		Reservoir: "Beads", Well: 3, WellCount: 4, Remaining: 20, Requested: 300,
	})
	assert.ErrorIs(t, supply, domain.ErrSupplyExhausted)
	assert.Contains(t, supply.Error(), "Beads well 4/4 holds 20, need 300")
	var se *domain.SupplyExhaustedError
	require.True(t, errors.As(supply, &se))
	assert.Equal(t, "Beads", se.Reservoir)
	assert.True(t, domain.IsFatal(supply))

	tips := &domain.ResourceExhaustedError{Pool: "tips300", Capacity: 96}
	assert.ErrorIs(t, tips, domain.ErrResourceExhausted)
	assert.False(t, domain.IsFatal(tips))

	invalid := &domain.InvalidRequestError{Op: "aspirate", Subject: "Beads", Reason: "volume must be > 0, got 0"}
	assert.ErrorIs(t, invalid, domain.ErrInvalidRequest)
	assert.True(t, domain.IsFatal(invalid))

	assert.False(t, domain.IsFatal(nil))
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{
		OnAspirate: func(context.Context, *domain.ReservoirEvent) { calls = append(calls, "first.aspirate") },
		OnAcquire:  func(context.Context, *domain.PoolEvent) { calls = append(calls, "first.acquire") },
	}
	second := domain.LifecycleHooks{
		OnAspirate: func(context.Context, *domain.ReservoirEvent) { calls = append(calls, "second.aspirate") },
		OnReset:    func(context.Context, *domain.PoolEvent) { calls = append(calls, "second.reset") },
	}

	merged := first.Merge(second)
	ctx := context.Background()
	merged.OnAspirate(ctx, &domain.ReservoirEvent{})
	merged.OnAcquire(ctx, &domain.PoolEvent{})
	merged.OnReset(ctx, &domain.PoolEvent{})

	assert.Equal(t, []string{"first.aspirate", "second.aspirate", "first.acquire", "second.reset"}, calls)
	assert.Nil(t, merged.OnRollover)
	assert.Nil(t, merged.OnRelease)
}

func TestBuildReport(t *testing.T) {
	r := domain.NewReservoir(validSpec())
	r.DepletedWellLog = []float64{120}
	r.CurrentWellIndex = 1
	r.CurrentVolume = 1000
	r.Aspirated = 3880
	r.Aspirations = 13

	state := domain.NewRunState("run-1", "extraction")
	state.Reservoirs = []domain.Reservoir{*r}
	state.Pools = []domain.TipPool{{
		PoolSpec:       domain.PoolSpec{Name: "tips300", Kind: domain.PoolTips, Capacity: 96},
		Consumed:       10,
		TotalConsumed:  106,
		Replenishments: 1,
		Status:         domain.PoolAvailable,
	}}

	rep := domain.BuildReport(state)
	assert.Equal(t, "run-1", rep.RunID)
	assert.Equal(t, domain.RunActive, rep.Status)

	require.Len(t, rep.Reagents, 1)
	reagent := rep.Reagents[0]
	assert.Equal(t, "Ethanol", reagent.Name)
	assert.Equal(t, 3880.0, reagent.Aspirated)
	assert.Equal(t, 2, reagent.WellsOpened)
	assert.Equal(t, []float64{120}, reagent.Leftovers)
	assert.Equal(t, 1000.0+2*3000.0, reagent.Remaining)

	require.Len(t, rep.Pools, 1)
	assert.Equal(t, 106, rep.Pools[0].TotalConsumed)
	assert.Equal(t, 1, rep.Pools[0].Replenishments)

	// The report does not alias the snapshot.
	rep.Reagents[0].Leftovers[0] = 0
	assert.Equal(t, 120.0, state.Reservoirs[0].DepletedWellLog[0])
}

func TestRunState_Terminal(t *testing.T) {
	s := domain.NewRunState("r", "p")
	assert.False(t, s.Terminal())
	s.Status = domain.RunPaused
	assert.False(t, s.Terminal())
	s.Status = domain.RunCompleted
	assert.True(t, s.Terminal())
	s.Status = domain.RunAborted
	assert.True(t, s.Terminal())
}
