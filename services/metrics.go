package services

import "github.com/prometheus/client_golang/prometheus"

var (
	activitiesLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "getfit_activities_logged_total",
			Help: "Total activities ingested",
		},
		[]string{"activity_type"},
	)
	incrementalUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "getfit_streak_incremental_updates_total",
			Help: "Streak updates applied on the O(1) incremental path",
		},
	)
	fullRecomputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "getfit_streak_full_recomputations_total",
			Help: "Streak recomputations over full activity history",
		},
	)
	outOfOrderFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "getfit_streak_out_of_order_fallbacks_total",
			Help: "Backfilled activities that forced a full recomputation",
		},
	)
)

// InitMetrics registers the domain counters. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(activitiesLogged)
	prometheus.MustRegister(incrementalUpdates)
	prometheus.MustRegister(fullRecomputations)
	prometheus.MustRegister(outOfOrderFallbacks)
}
