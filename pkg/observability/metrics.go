package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors updated by the planner hooks.
type Metrics struct {
	Aspirations     *prometheus.CounterVec
	AspiratedVolume *prometheus.CounterVec
	Rollovers       *prometheus.CounterVec
	DepletedVolume  *prometheus.CounterVec
	WellVolume      *prometheus.GaugeVec
	WellHeight      *prometheus.GaugeVec
	TipsAcquired    *prometheus.CounterVec
	TipsReleased    *prometheus.CounterVec
	PoolExhausted   *prometheus.CounterVec
	Replenishments  *prometheus.CounterVec
	PoolConsumed    *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a private registry, served by Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Aspirations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_aspirations_total",
			Help: "Total number of planned aspirations",
		}, []string{"reservoir"}),
		AspiratedVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_aspirated_microliters_total",
			Help: "Total volume drawn from each reservoir",
		}, []string{"reservoir"}),
		Rollovers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_well_rollovers_total",
			Help: "Total number of times a reservoir advanced to its next well",
		}, []string{"reservoir"}),
		DepletedVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_abandoned_microliters_total",
			Help: "Volume left behind in abandoned wells",
		}, []string{"reservoir"}),
		WellVolume: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wellplan_well_volume_microliters",
			Help: "Volume left in the open well after the last draw",
		}, []string{"reservoir"}),
		WellHeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wellplan_pickup_height_millimeters",
			Help: "Pickup height of the last draw",
		}, []string{"reservoir"}),
		TipsAcquired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_tips_acquired_total",
			Help: "Total number of units taken from each pool",
		}, []string{"pool"}),
		TipsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_tips_released_total",
			Help: "Total number of units handed back to each pool",
		}, []string{"pool"}),
		PoolExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_pool_exhausted_total",
			Help: "Total number of acquire attempts that found the pool empty",
		}, []string{"pool"}),
		Replenishments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellplan_pool_replenishments_total",
			Help: "Total number of operator reloads",
		}, []string{"pool"}),
		PoolConsumed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wellplan_pool_consumed",
			Help: "Units consumed since the last reload",
		}, []string{"pool"}),
	}

	reg.MustRegister(
		m.Aspirations, m.AspiratedVolume, m.Rollovers, m.DepletedVolume, m.WellVolume, m.WellHeight,
		m.TipsAcquired, m.TipsReleased, m.PoolExhausted, m.Replenishments, m.PoolConsumed,
	)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m
}

// Hooks returns lifecycle hooks that record every planner event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAspirate: func(ctx context.Context, e *domain.ReservoirEvent) {
			name := e.Well.Reservoir
			m.Aspirations.WithLabelValues(name).Inc()
			m.AspiratedVolume.WithLabelValues(name).Add(e.Volume)
			m.WellVolume.WithLabelValues(name).Set(e.Remaining)
			m.WellHeight.WithLabelValues(name).Set(e.Height)
		},
		OnRollover: func(ctx context.Context, e *domain.ReservoirEvent) {
			name := e.Well.Reservoir
			m.Rollovers.WithLabelValues(name).Inc()
			m.DepletedVolume.WithLabelValues(name).Add(e.Depleted)
		},
		OnAcquire: func(ctx context.Context, e *domain.PoolEvent) {
			m.TipsAcquired.WithLabelValues(e.Pool).Inc()
			m.PoolConsumed.WithLabelValues(e.Pool).Set(float64(e.Consumed))
		},
		OnExhausted: func(ctx context.Context, e *domain.PoolEvent) {
			m.PoolExhausted.WithLabelValues(e.Pool).Inc()
			m.PoolConsumed.WithLabelValues(e.Pool).Set(float64(e.Consumed))
		},
		OnReset: func(ctx context.Context, e *domain.PoolEvent) {
			m.Replenishments.WithLabelValues(e.Pool).Inc()
			m.PoolConsumed.WithLabelValues(e.Pool).Set(float64(e.Consumed))
		},
		OnRelease: func(ctx context.Context, e *domain.PoolEvent) {
			m.TipsReleased.WithLabelValues(e.Pool).Add(float64(e.Count))
			m.PoolConsumed.WithLabelValues(e.Pool).Set(float64(e.Consumed))
		},
	}
}

// Handler serves the registry the metrics were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
