/*
Package observability exports planner activity as Prometheus metrics.

Metrics are fed by domain.LifecycleHooks, so any Planner or Runner can be instrumented without
changes to the core:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	planner, err := wellplan.New(reagents, pools, wellplan.WithLifecycleHooks(m.Hooks()))
*/
package observability
