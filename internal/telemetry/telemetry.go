// Package telemetry wraps solve invocations with logging and metrics:
// a thin stdlib-log wrapper tagging solve_id/strategy/duration, a
// uuid.New() per-call correlation id, and a dedicated Prometheus
// registry built with the sync.Once registration pattern.
package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"vrpsolve/internal/heuristics"
)

var (
	// Registry is the dedicated Prometheus registry for solve metrics.
	Registry = prometheus.NewRegistry()

	// SolveDuration records wall-clock solve time in seconds, by
	// strategy.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "vrpsolve_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"strategy"},
	)
	// InsertionsTotal counts jobs successfully inserted, by strategy.
	InsertionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrpsolve_insertions_total", Help: "Jobs inserted during construction."},
		[]string{"strategy"},
	)
	// UnassignedJobs records the unassigned-job count left by the most
	// recent solve, by strategy.
	UnassignedJobs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "vrpsolve_unassigned_jobs", Help: "Unassigned jobs in the most recent solve."},
		[]string{"strategy"},
	)
)

var regOnce sync.Once

// RegisterDefault registers the solve collectors on Registry. Safe to
// call more than once; only the first call has effect.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(InsertionsTotal)
		Registry.MustRegister(UnassignedJobs)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// StrategyLabel returns the metric/log label for a heuristics.Strategy.
func StrategyLabel(s heuristics.Strategy) string {
	switch s {
	case heuristics.Basic:
		return "basic"
	case heuristics.DynamicVehicleChoice:
		return "dynamic_vehicle_choice"
	default:
		return "unknown"
	}
}

// Logger wraps a plain *log.Logger, writing tagged lines with
// log.Printf rather than a structured logging library.
type Logger struct {
	l *log.Logger
}

// New returns a Logger writing to the standard logger's destination.
func New() *Logger {
	return &Logger{l: log.Default()}
}

// SolveStarted logs the beginning of a solve and returns a per-call
// id used to correlate the matching SolveFinished line and any
// progress events internal/progress streams meanwhile.
func (lg *Logger) SolveStarted(strategy heuristics.Strategy, jobs, vehicles int) uuid.UUID {
	id := uuid.New()
	lg.l.Printf("solve_id=%s strategy=%s jobs=%d vehicles=%d event=started", id, StrategyLabel(strategy), jobs, vehicles)
	return id
}

// SolveFinished logs completion and records the duration/unassigned
// metrics for strategy.
func (lg *Logger) SolveFinished(id uuid.UUID, strategy heuristics.Strategy, dur time.Duration, assigned, unassigned int) {
	lg.l.Printf("solve_id=%s strategy=%s event=finished duration=%s assigned=%d unassigned=%d",
		id, StrategyLabel(strategy), dur, assigned, unassigned)
	label := StrategyLabel(strategy)
	SolveDuration.WithLabelValues(label).Observe(dur.Seconds())
	InsertionsTotal.WithLabelValues(label).Add(float64(assigned))
	UnassignedJobs.WithLabelValues(label).Set(float64(unassigned))
}
