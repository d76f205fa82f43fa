package workload

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	reconcileLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "instigator_reconcile_duration_seconds",
			Help:    "Samples latency of reconciling one component instance",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 3.0, 10.0},
		},
	)

	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instigator_reconcile_total",
			Help: "Reconciliations of component instances, partitioned by workload kind and result",
		}, []string{"kind", "result"},
	)

	applyActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instigator_apply_actions_total",
			Help: "Resources submitted to apiserver, partitioned by workload kind and action i.e. create, noop",
		}, []string{"kind", "action"},
	)
)

func init() {
	metrics.Registry.MustRegister(reconcileLatency, reconcileTotal, applyActions)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsTerminal(err):
		return "terminal"
	case IsRetriable(err):
		return "transport"
	default:
		return "error"
	}
}
