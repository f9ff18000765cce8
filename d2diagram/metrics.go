package d2diagram

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RoutesTotal counts link routes computed, by router.
	RoutesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "d2flow_routes_total",
			Help: "Link routes computed",
		},
		[]string{"router"},
	)

	// PathsTotal counts link paths generated, by path generator.
	PathsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "d2flow_paths_total",
			Help: "Link paths generated",
		},
		[]string{"generator"},
	)

	// DeleteDecisionsTotal counts deletion requests by entity kind and outcome.
	DeleteDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "d2flow_delete_decisions_total",
			Help: "Deletion requests by outcome",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RoutesTotal)
	prometheus.MustRegister(PathsTotal)
	prometheus.MustRegister(DeleteDecisionsTotal)
}
