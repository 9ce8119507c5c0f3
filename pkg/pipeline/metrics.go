package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loki_manifests_pipeline_runs_total",
		Help: "Report the number of pipeline runs by terminal state.",
	}, []string{"state"})
	metricTransformErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loki_manifests_transform_errors_total",
		Help: "Report the number of transforms which failed on a resource.",
	}, []string{"transform"})
	metricValidationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loki_manifests_validation_errors_total",
		Help: "Report the number of validators which rejected a resource.",
	}, []string{"validator"})
	metricResourcesEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loki_manifests_resources_emitted_total",
		Help: "Report the number of resources handed to an emitter by kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(
		metricRuns,
		metricTransformErrors,
		metricValidationErrors,
		metricResourcesEmitted,
	)
}
