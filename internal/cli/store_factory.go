package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/wellplan/pkg/adapters/file"
	"github.com/aretw0/wellplan/pkg/adapters/memory"
	"github.com/aretw0/wellplan/pkg/adapters/redis"
	"github.com/aretw0/wellplan/pkg/ports"
)

// Environment variables that provide defaults for the store flags.
const (
	EnvStore     = "WELLPLAN_STORE"
	EnvStoreDir  = "WELLPLAN_STORE_DIR"
	EnvRedisAddr = "WELLPLAN_REDIS_ADDR"
)

// Store kinds accepted by --store.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// StoreOptions selects and configures the run store.
type StoreOptions struct {
	Kind      string
	Dir       string
	RedisAddr string
	TTL       time.Duration
}

// StoreOptionsFromEnv returns the defaults used when flags are not set.
func StoreOptionsFromEnv() StoreOptions {
	return StoreOptions{
		Kind:      envOr(EnvStore, StoreFile),
		Dir:       envOr(EnvStoreDir, file.DefaultDir),
		RedisAddr: envOr(EnvRedisAddr, "localhost:6379"),
	}
}

// Persistence bundles the store with the matching run locker.
type Persistence struct {
	Store  ports.RunStore
	Locker ports.RunLocker
	closer io.Closer
}

// Close releases the backend connection, if any.
func (p *Persistence) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// OpenStore creates the store selected by opts.
// File and memory stores lock in-process; the Redis store locks in Redis so runners on several
// hosts sharing one store never drive the same run.
func OpenStore(opts StoreOptions) (*Persistence, error) {
	switch strings.ToLower(opts.Kind) {
	case "", StoreFile:
		return &Persistence{Store: file.New(opts.Dir), Locker: memory.NewLocker()}, nil
	case StoreMemory:
		return &Persistence{Store: memory.NewStore(), Locker: memory.NewLocker()}, nil
	case StoreRedis:
		var redisOpts []redis.Option
		if opts.TTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(opts.TTL))
		}
		store := redis.New(opts.RedisAddr, "", 0, redisOpts...)
		return &Persistence{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), redis.DefaultPrefix),
			closer: store,
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q (want file, redis or memory)", opts.Kind)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
