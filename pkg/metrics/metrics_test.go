package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swap-supply/pkg/pipeline"
	"swap-supply/pkg/types"
)

func newTestReporter(t *testing.T) *Reporter {
	r, err := NewReporter(prometheus.NewRegistry())
	require.NoError(t, err)

	clock := time.Unix(1700000000, 0)
	r.now = func() time.Time {
		clock = clock.Add(2 * time.Second)
		return clock
	}
	return r
}

func replay(r *Reporter, runID string, states []pipeline.State, err error) {
	for i := 1; i < len(states); i++ {
		e := pipeline.Event{RunID: runID, From: states[i-1], To: states[i]}
		if states[i] == pipeline.Failed {
			e.Err = err
		}
		r.Transition(e)
	}
}

func TestReporter_CountsRunsByOutcome(t *testing.T) {
	r := newTestReporter(t)

	replay(r, "a", []pipeline.State{
		pipeline.Idle, pipeline.AuthorizingInput, pipeline.Swapping,
		pipeline.AuthorizingOutput, pipeline.Depositing, pipeline.Complete,
	}, nil)
	replay(r, "b", []pipeline.State{
		pipeline.Idle, pipeline.AuthorizingInput, pipeline.Swapping, pipeline.Failed,
	}, fmt.Errorf("%w: no pool", types.ErrPoolNotFound))
	replay(r, "c", []pipeline.State{pipeline.Idle, pipeline.Failed}, types.ErrInvalidAmount)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues(OutcomeComplete)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("pool_not_found", "swapping")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("invalid_amount", "idle")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.transitionsTotal.WithLabelValues("idle", "authorizing_input")))
	// one series per chain step a run has left
	assert.Equal(t, 4, testutil.CollectAndCount(r.stepDuration))
	assert.Empty(t, r.startedAt)
	assert.Empty(t, r.enteredAt)
}

func TestReporter_IdleIsNotAStep(t *testing.T) {
	r := newTestReporter(t)

	replay(r, "a", []pipeline.State{pipeline.Idle, pipeline.Failed}, types.ErrInvalidAmount)
	assert.Equal(t, 0, testutil.CollectAndCount(r.stepDuration))

	replay(r, "b", []pipeline.State{
		pipeline.Idle, pipeline.AuthorizingInput, pipeline.Swapping, pipeline.Failed,
	}, types.ErrSwapReverted)
	assert.Equal(t, 2, testutil.CollectAndCount(r.stepDuration))
}

func TestReporter_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewReporter(reg)
	require.NoError(t, err)

	_, err = NewReporter(reg)
	require.Error(t, err)
}

func TestReporter_Push(t *testing.T) {
	var pushes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "/metrics/job/swap-supply", req.URL.Path)
		pushes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := newTestReporter(t)
	replay(r, "a", []pipeline.State{pipeline.Idle, pipeline.Failed}, types.ErrInvalidAmount)

	require.NoError(t, r.Push(server.URL, "swap-supply"))
	require.Equal(t, int32(1), pushes.Load())
}

func TestReporter_PushFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := newTestReporter(t)
	err := r.Push(server.URL, "swap-supply")
	require.ErrorContains(t, err, server.URL)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, "none"},
		{fmt.Errorf("approve: %w", types.ErrApprovalRejected), "approval_rejected"},
		{fmt.Errorf("swap: %w", types.ErrSwapReverted), "swap_reverted"},
		{types.ErrDepositReverted, "deposit_reverted"},
		{types.ErrSubmissionFailed, "submission_failed"},
		{types.ErrInvariantViolation, "invariant_violation"},
		{fmt.Errorf("rpc down"), "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ErrorKind(tt.err))
	}
}
