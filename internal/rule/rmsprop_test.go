package rule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRMSProp_FirstStep checks the moving average and scaling on a fresh
// accumulator.
func TestRMSProp_FirstStep(t *testing.T) {
	opt := NewRMSProp(RMSPropConfig{LR: 0.001, Rho: 0.9, Eps: 1e-8})

	param := vec(0)
	state, out, err := opt.Apply(opt.Init(param), param, vec(2))
	require.NoError(t, err)

	// acc = 0.9*0 + 0.1*4 = 0.4
	// dx' = 2 * 0.001 / (sqrt(0.4) + 1e-8)
	st := state.(*rmsPropState)
	assert.InDelta(t, 0.4, st.acc.AtVec(0), 1e-12)
	assert.InDelta(t, 2*0.001/(math.Sqrt(0.4)+1e-8), out.AtVec(0), 1e-15)
}

// TestAdaGrad_AccumulatorSeededAtEps verifies Init seeds the accumulator
// at eps, not zero.
func TestAdaGrad_AccumulatorSeededAtEps(t *testing.T) {
	opt := NewAdaGrad(AdaGradConfig{LR: 0.1, Eps: 1e-8})

	state := opt.Init(vec(0, 0))
	st := state.(*adaGradState)
	assert.InDelta(t, 1e-8, st.acc.AtVec(0), 1e-20)
	assert.InDelta(t, 1e-8, st.acc.AtVec(1), 1e-20)
}

// TestAdaGrad_MonotonicAccumulator applies a mixed-sign gradient sequence
// and checks the accumulator never decreases and the step magnitude never
// grows under a constant gradient.
func TestAdaGrad_MonotonicAccumulator(t *testing.T) {
	opt := NewAdaGrad(AdaGradConfig{LR: 0.1})

	param := vec(0, 0)
	state := opt.Init(param)

	grads := [][]float64{{3, -1}, {-2, 0}, {1, 4}, {0.5, -0.5}}
	prev := []float64{0, 0}
	for _, g := range grads {
		var err error
		state, _, err = opt.Apply(state, param, vec(g...))
		require.NoError(t, err)

		st := state.(*adaGradState)
		for i := 0; i < 2; i++ {
			assert.GreaterOrEqual(t, st.acc.AtVec(i), prev[i])
			prev[i] = st.acc.AtVec(i)
		}
	}

	// Constant gradient: outputs shrink step over step.
	state = opt.Init(param)
	last := math.Inf(1)
	for i := 0; i < 5; i++ {
		var out = vec(2)
		var err error
		state, out, err = opt.Apply(state, param, out)
		require.NoError(t, err)
		assert.Less(t, out.AtVec(0), last)
		last = out.AtVec(0)
	}
}

// TestAdaDelta_UsesOldUpdateAverage checks the first step reads the
// update average from before the step (still zero), and only then folds
// the new update into it.
func TestAdaDelta_UsesOldUpdateAverage(t *testing.T) {
	eps := 1e-8
	opt := NewAdaDelta(AdaDeltaConfig{Rho: 0.9, Eps: eps})

	param := vec(0)
	state, out, err := opt.Apply(opt.Init(param), param, vec(1))
	require.NoError(t, err)

	// acc  = 0.1*1 = 0.1
	// dx'  = 1 * sqrt(0 + eps) / sqrt(0.1 + eps)
	// dacc = 0.1 * dx'^2
	want := math.Sqrt(eps) / math.Sqrt(0.1+eps)
	assert.InDelta(t, want, out.AtVec(0), 1e-15)

	st := state.(*adaDeltaState)
	assert.InDelta(t, 0.1, st.acc.AtVec(0), 1e-12)
	assert.InDelta(t, 0.1*want*want, st.dacc.AtVec(0), 1e-18)

	// Step 2 must use dacc from step 1.
	state, out, err = opt.Apply(state, param, vec(1))
	require.NoError(t, err)

	acc2 := 0.9*0.1 + 0.1
	want2 := math.Sqrt(0.1*want*want+eps) / math.Sqrt(acc2+eps)
	assert.InDelta(t, want2, out.AtVec(0), 1e-15)
}

// TestAdaDelta_EpsInsideSqrt guards the epsilon placement: with a zero
// update average the output must be sqrt(eps)-scaled, not zero.
func TestAdaDelta_EpsInsideSqrt(t *testing.T) {
	opt := NewAdaDelta(AdaDeltaConfig{})

	param := vec(0)
	_, out, err := opt.Apply(nil, param, vec(5))
	require.NoError(t, err)
	assert.Greater(t, out.AtVec(0), 0.0)
}
