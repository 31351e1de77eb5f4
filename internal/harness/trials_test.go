package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pt = SweepPoint{Size: 1024, Sparsity: 0.95, Iterations: 10, ProcessCount: 2}

func Test_TrialRunner_MeanOfSuccessfulRepeatsOnly(t *testing.T) {
	for k := 1; k <= 4; k++ {
		exec := newFakeExecutor()
		calcs := []float64{1, 2, 3, 6}
		var want float64
		for i := 0; i < 4; i++ {
			if i < k {
				exec.script(pt, ok(pt, calcs[i]))
				want += calcs[i]
			} else {
				exec.script(pt, failed(pt))
			}
		}
		want /= float64(k)

		rec, err := NewTrialRunner(exec, discardLogger(), nil).Run(context.Background(), pt, 4)
		require.NoError(t, err)
		assert.Equal(t, k, rec.SuccessfulRuns)
		assert.Equal(t, 4, rec.Repeats)
		assert.InDelta(t, want, rec.Mean.Calc, 1e-9, "k=%d", k)
		assert.InDelta(t, 0.1, rec.Mean.Build, 1e-9)
		assert.Equal(t, pt, rec.Point)
		assert.Equal(t, SpeedupPending, rec.Speedup.State)
	}
}

func Test_TrialRunner_ExtractionFailureSkipsRepeat(t *testing.T) {
	exec := newFakeExecutor()
	exec.script(pt,
		fakeResult{out: "Time_CSR_Build: 1\nsegfault\n"},
		ok(pt, 2),
		fakeResult{out: "Time_CSR_Calc: garbage\n"},
	)
	obs := &recordingObserver{}
	rec, err := NewTrialRunner(exec, discardLogger(), obs).Run(context.Background(), pt, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.SuccessfulRuns)
	assert.Equal(t, 2.0, rec.Mean.Calc)

	require.Len(t, obs.events, 3)
	assert.True(t, errors.Is(obs.events[0].err, ErrMetricMissing))
	assert.NoError(t, obs.events[1].err)
	assert.True(t, errors.Is(obs.events[2].err, ErrMetricMissing) || errors.Is(obs.events[2].err, ErrMetricInvalid))
}

func Test_TrialRunner_AllRunsFailed(t *testing.T) {
	exec := newFakeExecutor()
	exec.script(pt, failed(pt), failed(pt), fakeResult{out: "nothing"})

	_, err := NewTrialRunner(exec, discardLogger(), nil).Run(context.Background(), pt, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllRunsFailed))
	assert.True(t, errors.Is(err, ErrExecutionFailed), "repeat causes stay reachable")
	assert.True(t, errors.Is(err, ErrMetricMissing))

	var allFailed *AllRunsFailedError
	require.True(t, errors.As(err, &allFailed))
	assert.Equal(t, 3, allFailed.Attempts)
	assert.Len(t, allFailed.Errors, 3)
	assert.Equal(t, pt, allFailed.Point)
}

func Test_TrialRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	exec := newFakeExecutor()
	exec.fallback = func(SweepPoint) (string, error) {
		cancel()
		return "", context.Canceled
	}

	_, err := NewTrialRunner(exec, discardLogger(), nil).Run(ctx, pt, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrAllRunsFailed))
	assert.Len(t, exec.calls, 1)
}

func Test_TrialRunner_RejectsNonPositiveRepeats(t *testing.T) {
	_, err := NewTrialRunner(newFakeExecutor(), nil, nil).Run(context.Background(), pt, 0)
	assert.True(t, errors.Is(err, ErrInvalidSweep))
}
