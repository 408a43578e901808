package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAspirate      EventType = "aspirate"
	EventRollover      EventType = "rollover"
	EventTipAcquire    EventType = "tip_acquire"
	EventPoolExhausted EventType = "pool_exhausted"
	EventPoolReset     EventType = "pool_reset"
	EventTipRelease    EventType = "tip_release"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// ReservoirEvent describes a draw against a reservoir.
type ReservoirEvent struct {
	EventBase
	Pickup
	// Depleted is the leftover recorded for the abandoned well (rollover only).
	Depleted float64 `json:"depleted,omitempty"`
}

// PoolEvent describes a change in a consumable pool.
type PoolEvent struct {
	EventBase
	Pool     string `json:"pool"`
	Consumed int    `json:"consumed"`
	Capacity int    `json:"capacity"`
	Count    int    `json:"count,omitempty"`
}

// LifecycleHooks defines callbacks for planner observability.
type LifecycleHooks struct {
	OnAspirate  func(context.Context, *ReservoirEvent)
	OnRollover  func(context.Context, *ReservoirEvent)
	OnAcquire   func(context.Context, *PoolEvent)
	OnExhausted func(context.Context, *PoolEvent)
	OnReset     func(context.Context, *PoolEvent)
	OnRelease   func(context.Context, *PoolEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnAspirate:  chainReservoir(h.OnAspirate, other.OnAspirate),
		OnRollover:  chainReservoir(h.OnRollover, other.OnRollover),
		OnAcquire:   chainPool(h.OnAcquire, other.OnAcquire),
		OnExhausted: chainPool(h.OnExhausted, other.OnExhausted),
		OnReset:     chainPool(h.OnReset, other.OnReset),
		OnRelease:   chainPool(h.OnRelease, other.OnRelease),
	}
}

func chainReservoir(a, b func(context.Context, *ReservoirEvent)) func(context.Context, *ReservoirEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ReservoirEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainPool(a, b func(context.Context, *PoolEvent)) func(context.Context, *PoolEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *PoolEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
