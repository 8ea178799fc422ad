package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "created_total",
		Help:      "Workouts accepted from the form, by type.",
	}, []string{"type"})
	workoutsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "rejected_total",
		Help:      "Form submissions rejected by validation.",
	})
	workoutsRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "removed_total",
		Help:      "Workouts removed individually or by reset.",
	})
	snapshotWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "snapshot",
		Name:      "writes_total",
		Help:      "Snapshot slot writes, by result.",
	}, []string{"result"})
	snapshotSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "snapshot",
		Name:      "workouts",
		Help:      "Number of workouts in the last written snapshot.",
	})
)

func init() {
	prometheus.MustRegister(workoutsCreated, workoutsRejected, workoutsRemoved, snapshotWrites, snapshotSize)
}

func RecordWorkoutCreated(workoutType string) {
	workoutsCreated.WithLabelValues(workoutType).Inc()
}

func RecordWorkoutRejected() {
	workoutsRejected.Inc()
}

func RecordWorkoutsRemoved(n int) {
	if n <= 0 {
		return
	}
	workoutsRemoved.Add(float64(n))
}

// RecordSnapshotWrite tracks a slot write and, on success, the list size it held.
func RecordSnapshotWrite(count int, err error) {
	if err != nil {
		snapshotWrites.WithLabelValues("error").Inc()
		return
	}
	snapshotWrites.WithLabelValues("ok").Inc()
	snapshotSize.Set(float64(count))
}
