package d2routing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RouteFallbacksTotal counts orthogonal searches that found no route and fell back to Normal.
var RouteFallbacksTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "d2flow_route_fallbacks_total",
		Help: "Orthogonal routes that fell back to the normal router",
	},
)

func init() {
	prometheus.MustRegister(RouteFallbacksTotal)
}
