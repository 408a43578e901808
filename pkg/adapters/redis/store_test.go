package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wellplan/pkg/adapters/redis"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements RunStore
var _ ports.RunStore = (*redis.Store)(nil)

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunStoreContract(t, store)
}

func TestRedisStore_Keys(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewRunState("run-1", "extraction")))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"run-1"))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"index"))

	custom := redis.NewFromClient(client, redis.WithPrefix("lab2:"))
	require.NoError(t, custom.Save(ctx, domain.NewRunState("run-1", "extraction")))
	assert.True(t, mr.Exists("lab2:run-1"))

	runs, err := custom.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs, "prefixes isolate indexes")
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewRunState("run-ttl", "extraction")))
	_, err := store.Load(ctx, "run-ttl")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestRedisStore_RejectsMissingRunID(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	err := store.Save(context.Background(), domain.NewRunState("", "p"))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
