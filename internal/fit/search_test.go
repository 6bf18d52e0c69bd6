package fit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBisection_FindsHighestAccepted(t *testing.T) {
	// Accept everything below 0.3; the window should creep up toward it.
	b := bisection{lo: minQuality, hi: maxQuality, step: qualityStep, converge: qualityEps, iters: qualityIters}
	var probed []float64
	best := b.run(
		func(x float64) (*Attempt, error) {
			probed = append(probed, x)
			return &Attempt{Bytes: make([]byte, 1), Quality: x, Scale: 1}, nil
		},
		func(a *Attempt) bool { return a.Quality <= 0.3 },
		nil,
		true,
	)
	require.NotNil(t, best)
	require.LessOrEqual(t, best.Quality, 0.3)
	require.Greater(t, best.Quality, 0.25)
	require.LessOrEqual(t, len(probed), qualityIters)
}

func TestBisection_NothingAccepted(t *testing.T) {
	b := bisection{lo: 0.01, hi: 0.999, step: 0.02, converge: 0.005, iters: 12}
	best := b.run(
		func(x float64) (*Attempt, error) {
			return &Attempt{Bytes: make([]byte, 1), Quality: x, Scale: 1}, nil
		},
		func(*Attempt) bool { return false },
		nil,
		true,
	)
	require.Nil(t, best)
}

func TestBisection_StopOnErr(t *testing.T) {
	b := bisection{lo: 0.01, hi: 0.999, step: 0.02, converge: 0.005, iters: 12}
	calls := 0
	best := b.run(
		func(x float64) (*Attempt, error) {
			calls++
			return nil, errors.New("refused")
		},
		func(*Attempt) bool { return true },
		nil,
		true,
	)
	require.Nil(t, best)
	require.Equal(t, 1, calls)
}

func TestBisection_ErrorAsRejection(t *testing.T) {
	// Failures above 0.5 must not end the search; it should still settle on
	// an accepted candidate below them.
	b := bisection{lo: 0.01, hi: 0.999, step: 0.02, converge: 0.005, iters: 12}
	best := b.run(
		func(x float64) (*Attempt, error) {
			if x > 0.5 {
				return nil, errors.New("refused")
			}
			return &Attempt{Bytes: make([]byte, 1), Quality: x, Scale: 1}, nil
		},
		func(*Attempt) bool { return true },
		nil,
		false,
	)
	require.NotNil(t, best)
	require.Greater(t, best.Quality, 0.4)
	require.LessOrEqual(t, best.Quality, 0.5)
}

func TestBisection_DoneShortCircuits(t *testing.T) {
	b := bisection{lo: 0.01, hi: 0.999, step: 0.02, converge: 0.005, iters: 12}
	calls := 0
	best := b.run(
		func(x float64) (*Attempt, error) {
			calls++
			return &Attempt{Bytes: make([]byte, 1), Quality: x, Scale: 1}, nil
		},
		func(*Attempt) bool { return true },
		func(*Attempt) bool { return true },
		true,
	)
	require.NotNil(t, best)
	require.Equal(t, 1, calls)
}

func TestSearchQuality_UnderCapAcrossTargets(t *testing.T) {
	// Any cap with room above the bottom of the probe window must come back
	// non-nil and within the cap.
	for _, capKB := range []float64{30, 50, 100, 300, 700, 1000} {
		enc := kilo()
		src := newSource(1000, 1000)
		att := New(enc).searchQuality(src.Img, 1, capKB)
		require.NotNil(t, att, "cap %v", capKB)
		require.LessOrEqual(t, att.SizeKB(), capKB, "cap %v", capKB)
		require.Equal(t, 1.0, att.Scale)
	}
}

func TestSearchQuality_BelowFloor(t *testing.T) {
	enc := kilo()
	src := newSource(1000, 1000)
	require.Nil(t, New(enc).searchQuality(src.Img, 1, 5))
}

func TestSearchQuality_StopsOnProbeFailure(t *testing.T) {
	enc := kilo()
	enc.fail = func(q float64, _, _ int) bool { return q < 0.2 }
	src := newSource(1000, 1000)
	// The cap is only reachable below the failing region, so the search must
	// give up rather than walk into it.
	att := New(enc).searchQuality(src.Img, 1, 100)
	require.Nil(t, att)
	require.Len(t, enc.probes, 3)
}

func TestSearchUpscale_NeverExceedsCap(t *testing.T) {
	for _, capKB := range []float64{15, 40, 100, 400} {
		enc := kilo()
		att := New(enc).searchUpscale(newSource(100, 100), capKB, 0.9)
		if att == nil {
			continue
		}
		require.LessOrEqual(t, att.SizeKB(), capKB, "cap %v", capKB)
		require.GreaterOrEqual(t, att.Scale, 1.0)
		require.LessOrEqual(t, att.Scale, maxUpscale)
	}
}

func TestSearchUpscale_StopsNearCap(t *testing.T) {
	// The first midpoint probe (scale 3.5) lands just under this cap, so the
	// search must take it and stop instead of burning the rest of its budget.
	enc := kilo()
	att := New(enc).searchUpscale(newSource(100, 100), 110.4, 0.9)
	require.NotNil(t, att)
	require.Len(t, enc.probes, 1)
	require.Equal(t, 3.5, att.Scale)
	require.LessOrEqual(t, 110.4-att.SizeKB(), capSlackKB)
}

func TestSearchUpscale_ProbeFailureContinues(t *testing.T) {
	enc := kilo()
	enc.fail = func(_ float64, w, _ int) bool { return w > 300 }
	att := New(enc).searchUpscale(newSource(100, 100), 1e6, 0.9)
	require.NotNil(t, att)
	require.Greater(t, att.Scale, 2.9)
	require.Less(t, att.Scale, 3.01)
}

func TestEncode_MonotoneInQuality(t *testing.T) {
	enc := kilo()
	e := New(enc)
	src := newSource(200, 200)
	prev := -1
	for _, q := range []float64{0.05, 0.1, 0.2, 0.35, 0.5, 0.7, 0.9, 0.999} {
		att, err := e.encode(src.Img, q, 1)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(att.Bytes), prev)
		prev = len(att.Bytes)
	}
}

func TestEncode_EmptyOutputIsError(t *testing.T) {
	// Area*quality small enough to truncate to zero bytes.
	enc := &stubEncoder{perPixel: 0.001}
	_, err := New(enc).encode(newSource(10, 10).Img, 0.5, 1)
	require.ErrorIs(t, err, errEmptyEncode)
}
