package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/taskmaster/internal/domain"
)

// TaskMetrics holds Prometheus metrics for task list mutations.
type TaskMetrics struct {
	OperationsTotal *prometheus.CounterVec
	TasksCurrent    prometheus.Gauge
}

// NewTaskMetrics creates and registers task metrics on the given registry.
func NewTaskMetrics(reg prometheus.Registerer) *TaskMetrics {
	m := &TaskMetrics{
		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "operations_total",
			Help:      "Total number of task operations, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		TasksCurrent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "current",
			Help:      "Number of tasks currently held in memory.",
		}),
	}

	reg.MustRegister(m.OperationsTotal, m.TasksCurrent)
	return m
}

func (m *TaskMetrics) RecordAdd(outcome domain.AddOutcome, total int) {
	m.OperationsTotal.WithLabelValues("add", string(outcome)).Inc()
	m.TasksCurrent.Set(float64(total))
}

func (m *TaskMetrics) RecordDelete(outcome domain.DeleteOutcome, total int) {
	m.OperationsTotal.WithLabelValues("delete", string(outcome)).Inc()
	m.TasksCurrent.Set(float64(total))
}
