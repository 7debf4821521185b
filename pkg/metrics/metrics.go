package metrics

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"swap-supply/pkg/pipeline"
	"swap-supply/pkg/types"
)

const namespace = "swap_supply"

// Outcome labels
const (
	OutcomeComplete = "complete"
	OutcomeFailed   = "failed"
)

// Reporter records pipeline transitions as prometheus metrics
type Reporter struct {
	runsTotal        *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	stepDuration     *prometheus.HistogramVec
	runDuration      prometheus.Histogram
	lastRunTimestamp prometheus.Gauge

	gatherer prometheus.Gatherer
	now      func() time.Time

	mu        sync.Mutex
	startedAt map[string]time.Time
	enteredAt map[string]time.Time
}

// NewReporter creates the collectors and registers them with reg
func NewReporter(reg *prometheus.Registry) (*Reporter, error) {
	r := &Reporter{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of pipeline runs by outcome",
			},
			[]string{"outcome"}, // complete, failed
		),
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "transitions_total",
				Help:      "Total number of state transitions",
			},
			[]string{"from", "to"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "errors_total",
				Help:      "Total number of failed runs by error kind and state",
			},
			[]string{"kind", "state"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "step_duration_seconds",
				Help:      "Time spent in each pipeline state",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"state"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "run_duration_seconds",
				Help:      "Time taken by a full pipeline run",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "last_run_timestamp",
				Help:      "Timestamp of the last finished run",
			},
		),
		gatherer:  reg,
		now:       time.Now,
		startedAt: make(map[string]time.Time),
		enteredAt: make(map[string]time.Time),
	}

	for _, c := range []prometheus.Collector{
		r.runsTotal,
		r.transitionsTotal,
		r.errorsTotal,
		r.stepDuration,
		r.runDuration,
		r.lastRunTimestamp,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Transition implements pipeline.Reporter
func (r *Reporter) Transition(e pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	r.transitionsTotal.WithLabelValues(e.From.String(), e.To.String()).Inc()

	// idle has no step of its own; the run clock starts when it is left
	if e.From == pipeline.Idle {
		if _, ok := r.startedAt[e.RunID]; !ok {
			r.startedAt[e.RunID] = now
		}
	} else if entered, ok := r.enteredAt[e.RunID]; ok {
		r.stepDuration.WithLabelValues(e.From.String()).Observe(now.Sub(entered).Seconds())
	}
	r.enteredAt[e.RunID] = now

	if !e.To.Terminal() {
		return
	}

	outcome := OutcomeComplete
	if e.To == pipeline.Failed {
		outcome = OutcomeFailed
		r.errorsTotal.WithLabelValues(ErrorKind(e.Err), e.From.String()).Inc()
	}
	r.runsTotal.WithLabelValues(outcome).Inc()

	if started, ok := r.startedAt[e.RunID]; ok {
		r.runDuration.Observe(now.Sub(started).Seconds())
	}
	r.lastRunTimestamp.Set(float64(now.Unix()))

	delete(r.startedAt, e.RunID)
	delete(r.enteredAt, e.RunID)
}

// Push sends the collected metrics to a Pushgateway under the given job
func (r *Reporter) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(r.gatherer).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// ErrorKind maps a run error to a stable label value
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, types.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, types.ErrPoolNotFound):
		return "pool_not_found"
	case errors.Is(err, types.ErrSubmissionFailed):
		return "submission_failed"
	case errors.Is(err, types.ErrApprovalRejected):
		return "approval_rejected"
	case errors.Is(err, types.ErrSwapReverted):
		return "swap_reverted"
	case errors.Is(err, types.ErrDepositReverted):
		return "deposit_reverted"
	case errors.Is(err, types.ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "other"
	}
}
