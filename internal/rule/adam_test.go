package rule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestAdam_BiasCorrectionStepOne follows the step-one arithmetic by hand.
func TestAdam_BiasCorrectionStepOne(t *testing.T) {
	opt := NewAdam(AdamConfig{LR: 0.001, Betas: [2]float64{0.9, 0.99}, Eps: 1e-8})

	param := vec(0)
	state := opt.Init(param)

	state, out, err := opt.Apply(state, param, vec(2))
	require.NoError(t, err)

	// m = 0.1*2 = 0.2, v = 0.01*4 = 0.04
	// m_hat = 0.2/0.1 = 2, v_hat = 0.04/0.01 = 4
	// dx'   = 2 / (sqrt(4) + eps) * 0.001 ~ 0.001
	st := state.(*adamState)
	assert.InDelta(t, 0.2, st.m.AtVec(0), 1e-12)
	assert.InDelta(t, 0.04, st.v.AtVec(0), 1e-12)
	assert.InDelta(t, 2.0/(2.0+1e-8)*0.001, out.AtVec(0), 1e-15)
	assert.InDelta(t, 0.001, out.AtVec(0), 1e-8)
}

// TestAdam_DecayPowersAdvance verifies beta^t tracking is multiplicative
// and only advances after the correction is taken.
func TestAdam_DecayPowersAdvance(t *testing.T) {
	opt := NewAdam(AdamConfig{Betas: [2]float64{0.9, 0.99}})

	param := vec(0)
	state := opt.Init(param)
	st := state.(*adamState)
	assert.InDelta(t, 0.9, st.beta1, 1e-12)
	assert.InDelta(t, 0.99, st.beta2, 1e-12)

	for i := 1; i <= 3; i++ {
		var err error
		state, _, err = opt.Apply(state, param, vec(1))
		require.NoError(t, err)

		st = state.(*adamState)
		assert.InDelta(t, math.Pow(0.9, float64(i+1)), st.beta1, 1e-12)
		assert.InDelta(t, math.Pow(0.99, float64(i+1)), st.beta2, 1e-12)
	}
}

// TestAdam_ConstantGradientStepsNearLR: with a constant gradient, the
// bias-corrected moments cancel and every step is ~LR in magnitude.
func TestAdam_ConstantGradientStepsNearLR(t *testing.T) {
	opt := NewAdam(AdamConfig{LR: 0.01})

	param := vec(0)
	state := opt.Init(param)
	for i := 0; i < 10; i++ {
		var out = vec(2)
		var err error
		state, out, err = opt.Apply(state, param, out)
		require.NoError(t, err)
		assert.InDelta(t, 0.01, out.AtVec(0), 1e-6)
	}
}

// TestAMSGrad_SeededAtEps verifies all three accumulators start at eps.
func TestAMSGrad_SeededAtEps(t *testing.T) {
	opt := NewAMSGrad(AdamConfig{Eps: 1e-8})

	st := opt.Init(vec(0)).(*amsGradState)
	assert.InDelta(t, 1e-8, st.m.AtVec(0), 1e-20)
	assert.InDelta(t, 1e-8, st.v.AtVec(0), 1e-20)
	assert.InDelta(t, 1e-8, st.vcap.AtVec(0), 1e-20)
}

// TestAMSGrad_FirstStep checks the uncorrected update against the
// formula, eps seeds included.
func TestAMSGrad_FirstStep(t *testing.T) {
	eps := 1e-8
	opt := NewAMSGrad(AdamConfig{LR: 0.001, Betas: [2]float64{0.9, 0.99}, Eps: eps})

	param := vec(0)
	_, out, err := opt.Apply(opt.Init(param), param, vec(1))
	require.NoError(t, err)

	m := 0.9*eps + 0.1
	v := 0.99*eps + 0.01
	assert.InDelta(t, 0.001*m/(math.Sqrt(v)+eps), out.AtVec(0), 1e-15)
}

// TestAMSGrad_MaxIsSticky feeds a large then a zero gradient; the running
// maximum must hold the large second moment while v itself decays.
func TestAMSGrad_MaxIsSticky(t *testing.T) {
	opt := NewAMSGrad(AdamConfig{})

	param := vec(0)
	state, _, err := opt.Apply(opt.Init(param), param, vec(10))
	require.NoError(t, err)

	peak := state.(*amsGradState).vcap.AtVec(0)

	state, _, err = opt.Apply(state, param, vec(0))
	require.NoError(t, err)

	st := state.(*amsGradState)
	assert.InDelta(t, peak, st.vcap.AtVec(0), 1e-15)
	assert.Less(t, st.v.AtVec(0), peak)
}

// TestAdamW_IsAdamThenWeightDecay verifies the predefined chain matches a
// hand-built Chain(Adam, WeightDecay) step for step.
func TestAdamW_IsAdamThenWeightDecay(t *testing.T) {
	cfg := AdamWConfig{LR: 0.01, WeightDecay: 0.05}
	adamW := NewAdamW(cfg)
	manual := NewChain(
		NewAdam(AdamConfig{LR: cfg.LR}),
		NewWeightDecay(cfg.WeightDecay),
	)

	param := vec(3, -1)
	sa, sm := adamW.Init(param), manual.Init(param)

	for step := 0; step < 4; step++ {
		var outA, outM *mat.VecDense
		var err error
		sa, outA, err = adamW.Apply(sa, param, vec(1, -2))
		require.NoError(t, err)
		sm, outM, err = manual.Apply(sm, param, vec(1, -2))
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			assert.InDelta(t, outM.AtVec(i), outA.AtVec(i), 1e-15)
		}
	}
}

// TestAdamW_DecayAfterAdaptiveScaling: with a zero gradient, the AdamW
// step still contains the raw gamma*x term, untouched by Adam's scaling.
func TestAdamW_DecayAfterAdaptiveScaling(t *testing.T) {
	opt := NewAdamW(AdamWConfig{WeightDecay: 0.1})

	param := vec(2)
	_, out, err := opt.Apply(opt.Init(param), param, vec(0))
	require.NoError(t, err)

	// Adam maps a zero gradient to zero; the decay term survives exactly.
	assert.InDelta(t, 0.2, out.AtVec(0), 1e-12)
}
