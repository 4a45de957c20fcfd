package optimise

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/optimise/internal/rule"
)

// Rule is the interface implemented by every gradient-transformation rule.
type Rule = rule.Rule

// State holds the per-(rule, parameter) accumulators threaded between
// Apply calls.
type State = rule.State

// ErrNotFinite is returned by ClipNorm when the gradient norm is NaN or
// infinite and Throw is enabled.
type ErrNotFinite = rule.ErrNotFinite

// Chain applies its member rules in declared order.
type Chain = rule.Chain

// NewChain creates a Chain over the given rules, applied in argument order.
func NewChain(rules ...Rule) *Chain {
	return rule.NewChain(rules...)
}

// Descent (plain gradient descent)

// Descent represents the plain gradient-descent rule.
type Descent = rule.Descent

// DescentConfig contains configuration for Descent.
type DescentConfig = rule.DescentConfig

// NewDescent creates a plain gradient-descent rule.
//
// Example:
//
//	opt := optimise.NewDescent(optimise.DescentConfig{LR: 0.1})
func NewDescent(config DescentConfig) *Descent {
	return rule.NewDescent(config)
}

// Momentum

// Momentum represents gradient descent with classical momentum.
type Momentum = rule.Momentum

// MomentumConfig contains configuration for Momentum.
type MomentumConfig = rule.MomentumConfig

// NewMomentum creates a momentum gradient-descent rule.
func NewMomentum(config MomentumConfig) *Momentum {
	return rule.NewMomentum(config)
}

// Nesterov

// Nesterov represents gradient descent with Nesterov momentum.
type Nesterov = rule.Nesterov

// NesterovConfig contains configuration for Nesterov.
type NesterovConfig = rule.NesterovConfig

// NewNesterov creates a Nesterov-momentum gradient-descent rule.
func NewNesterov(config NesterovConfig) *Nesterov {
	return rule.NewNesterov(config)
}

// RMSProp

// RMSProp represents the RMSProp rule.
type RMSProp = rule.RMSProp

// RMSPropConfig contains configuration for RMSProp.
type RMSPropConfig = rule.RMSPropConfig

// NewRMSProp creates an RMSProp rule.
func NewRMSProp(config RMSPropConfig) *RMSProp {
	return rule.NewRMSProp(config)
}

// Adam family

// AdamConfig contains configuration shared by the Adam-family rules.
type AdamConfig = rule.AdamConfig

// Adam represents the Adam rule.
type Adam = rule.Adam

// NewAdam creates an Adam rule.
//
// Example:
//
//	opt := optimise.NewAdam(optimise.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.99},
//	    Eps:   1e-8,
//	})
func NewAdam(config AdamConfig) *Adam {
	return rule.NewAdam(config)
}

// RAdam represents the Rectified Adam rule.
type RAdam = rule.RAdam

// NewRAdam creates a Rectified Adam rule.
func NewRAdam(config AdamConfig) *RAdam {
	return rule.NewRAdam(config)
}

// AdaMax represents the AdaMax rule.
type AdaMax = rule.AdaMax

// NewAdaMax creates an AdaMax rule.
func NewAdaMax(config AdamConfig) *AdaMax {
	return rule.NewAdaMax(config)
}

// OAdam represents the Optimistic Adam rule.
type OAdam = rule.OAdam

// NewOAdam creates an Optimistic Adam rule.
func NewOAdam(config AdamConfig) *OAdam {
	return rule.NewOAdam(config)
}

// AMSGrad represents the AMSGrad rule.
type AMSGrad = rule.AMSGrad

// NewAMSGrad creates an AMSGrad rule.
func NewAMSGrad(config AdamConfig) *AMSGrad {
	return rule.NewAMSGrad(config)
}

// NAdam represents the Nesterov-accelerated Adam rule.
type NAdam = rule.NAdam

// NewNAdam creates a NAdam rule.
func NewNAdam(config AdamConfig) *NAdam {
	return rule.NewNAdam(config)
}

// AdaBelief represents the AdaBelief rule.
type AdaBelief = rule.AdaBelief

// NewAdaBelief creates an AdaBelief rule.
func NewAdaBelief(config AdamConfig) *AdaBelief {
	return rule.NewAdaBelief(config)
}

// AdamWConfig contains configuration for AdamW.
type AdamWConfig = rule.AdamWConfig

// NewAdamW creates the AdamW rule: Adam followed by decoupled weight
// decay, as Chain(Adam, WeightDecay).
func NewAdamW(config AdamWConfig) *Chain {
	return rule.NewAdamW(config)
}

// AdaGrad

// AdaGrad represents the AdaGrad rule.
type AdaGrad = rule.AdaGrad

// AdaGradConfig contains configuration for AdaGrad.
type AdaGradConfig = rule.AdaGradConfig

// NewAdaGrad creates an AdaGrad rule.
func NewAdaGrad(config AdaGradConfig) *AdaGrad {
	return rule.NewAdaGrad(config)
}

// AdaDelta

// AdaDelta represents the AdaDelta rule.
type AdaDelta = rule.AdaDelta

// AdaDeltaConfig contains configuration for AdaDelta.
type AdaDeltaConfig = rule.AdaDeltaConfig

// NewAdaDelta creates an AdaDelta rule.
func NewAdaDelta(config AdaDeltaConfig) *AdaDelta {
	return rule.NewAdaDelta(config)
}

// Gradient shaping

// WeightDecay represents the L2 weight-decay rule.
type WeightDecay = rule.WeightDecay

// NewWeightDecay creates a weight-decay rule with coefficient gamma.
func NewWeightDecay(gamma float64) *WeightDecay {
	return rule.NewWeightDecay(gamma)
}

// ClipGrad represents the elementwise gradient-clipping rule.
type ClipGrad = rule.ClipGrad

// NewClipGrad creates an elementwise gradient-clipping rule with
// threshold delta.
func NewClipGrad(delta float64) *ClipGrad {
	return rule.NewClipGrad(delta)
}

// ClipNorm represents the norm-based gradient-clipping rule.
type ClipNorm = rule.ClipNorm

// NewClipNorm creates a norm-clipping rule with threshold max, using the
// 2-norm and failing on non-finite norms.
func NewClipNorm(max float64) *ClipNorm {
	return rule.NewClipNorm(max)
}

// NewClipNormP creates a norm-clipping rule with an explicit norm order p
// and non-finite handling.
func NewClipNormP(max, p float64, throw bool) *ClipNorm {
	return rule.NewClipNormP(max, p, throw)
}

// Init allocates the initial state for one (rule, parameter) pair. It is
// shorthand for r.Init(param).
func Init(r Rule, param *mat.VecDense) State {
	return r.Init(param)
}

// Apply performs one optimization step for one (rule, parameter) pair.
// It is shorthand for r.Apply(state, param, grad); the caller subtracts
// the returned gradient from the parameter.
func Apply(r Rule, state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	return r.Apply(state, param, grad)
}
