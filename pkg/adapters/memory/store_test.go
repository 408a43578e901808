package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wellplan/pkg/adapters/memory"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStoreContract(t, store)
}

func TestMemoryStore_RejectsMissingRunID(t *testing.T) {
	store := memory.NewStore()
	err := store.Save(context.Background(), domain.NewRunState("", "p"))
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestMemoryLocker(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "run-1", time.Minute)
	require.NoError(t, err)

	t.Run("contention blocks until timeout", func(t *testing.T) {
		ctxTimeout, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err := locker.Lock(ctxTimeout, "run-1", time.Minute)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("other keys are independent", func(t *testing.T) {
		other, err := locker.Lock(ctx, "run-2", time.Minute)
		require.NoError(t, err)
		require.NoError(t, other(ctx))
	})

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx), "unlock is idempotent")

	again, err := locker.Lock(ctx, "run-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
