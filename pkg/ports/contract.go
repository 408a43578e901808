package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	sample := func(id string) *domain.RunState {
		state := domain.NewRunState(id, "extraction")
		state.Step = 3
		state.Simulate = true
		state.Reservoirs = []domain.Reservoir{{
			ReservoirSpec: domain.ReservoirSpec{
				Name:        "Beads",
				TotalVolume: 1500,
				WellCount:   4,
				Wells:       []string{"A1", "A2", "A3", "A4"},
				Geometry:    domain.Geometry{CrossSectionArea: 63.61, ConeVolume: 50},
				Rinse:       true,
			},
			CurrentWellIndex: 1,
			CurrentVolume:    75,
			DepletedWellLog:  []float64{75},
			Aspirated:        600,
			Aspirations:      2,
			RolledOver:       true,
		}}
		state.Pools = []domain.TipPool{{
			PoolSpec:      domain.PoolSpec{Name: "tips300", Kind: domain.PoolTips, Capacity: 96},
			Consumed:      12,
			Status:        domain.PoolAvailable,
			TotalConsumed: 12,
		}}
		return state
	}

	t.Run("Save and Load", func(t *testing.T) {
		state := sample(runID)

		err := store.Save(ctx, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.RunID, loaded.RunID)
		assert.Equal(t, state.Step, loaded.Step)
		assert.True(t, loaded.Simulate)
		require.Len(t, loaded.Reservoirs, 1)
		assert.Equal(t, state.Reservoirs[0], loaded.Reservoirs[0])
		require.Len(t, loaded.Pools, 1)
		assert.Equal(t, state.Pools[0], loaded.Pools[0])
		assert.True(t, state.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		loaded.Reservoirs[0].DepletedWellLog[0] = 0
		loaded.Step = 99

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 3, again.Step)
		assert.Equal(t, []float64{75}, again.Reservoirs[0].DepletedWellLog)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		state := sample(runID)
		state.Step = 4
		state.Status = domain.RunCompleted
		require.NoError(t, store.Save(ctx, state))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 4, loaded.Step)
		assert.Equal(t, domain.RunCompleted, loaded.Status)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sample(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, sample(id1)))
		require.NoError(t, store.Save(ctx, sample(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
