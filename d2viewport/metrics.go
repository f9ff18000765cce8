package d2viewport

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CullDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "d2flow_cull_duration_seconds",
			Help:    "Time spent computing the visible entity set.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)

	VisibleEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "d2flow_visible_entities",
			Help: "Entities in the last computed visible set, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(CullDuration, VisibleEntities)
}
