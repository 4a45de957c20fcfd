package rule

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RMSProp scales the gradient by a root-mean-square moving average of its
// history.
//
// Update rule:
//
//	acc = rho * acc + (1 - rho) * dx^2
//	dx' = dx * eta / (sqrt(acc) + eps)
type RMSProp struct {
	eta float64
	rho float64
	eps float64
}

// RMSPropConfig holds configuration for RMSProp.
type RMSPropConfig struct {
	LR  float64 // Learning rate (default: 0.001)
	Rho float64 // Moving-average decay (default: 0.9)
	Eps float64 // Term for numerical stability (default: 1e-8)
}

func (c RMSPropConfig) withDefaults() RMSPropConfig {
	if c.LR == 0 {
		c.LR = 0.001
	}
	if c.Rho == 0 {
		c.Rho = 0.9
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	return c
}

// NewRMSProp creates an RMSProp rule.
func NewRMSProp(config RMSPropConfig) *RMSProp {
	config = config.withDefaults()
	return &RMSProp{eta: config.LR, rho: config.Rho, eps: config.Eps}
}

type rmsPropState struct {
	acc *mat.VecDense
}

func (r *RMSProp) Init(param *mat.VecDense) State {
	return &rmsPropState{acc: zerosLike(param)}
}

func (r *RMSProp) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*rmsPropState)

	acc := st.acc
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		a := r.rho*acc.AtVec(i) + (1-r.rho)*g*g
		acc.SetVec(i, a)
		grad.SetVec(i, g*r.eta/(math.Sqrt(a)+r.eps))
	}
	return st, grad, nil
}

func (r *RMSProp) String() string {
	return fmt.Sprintf("RMSProp(%g, %g)", r.eta, r.rho)
}

// AdaGrad accumulates squared gradients over the whole run, so the
// effective step size for each coordinate only ever shrinks.
//
// Update rule:
//
//	acc = acc + dx^2
//	dx' = dx * eta / (sqrt(acc) + eps)
//
// The accumulator is seeded at eps rather than zero to avoid a division
// singularity on the first step.
type AdaGrad struct {
	eta float64
	eps float64
}

// AdaGradConfig holds configuration for AdaGrad.
type AdaGradConfig struct {
	LR  float64 // Learning rate (default: 0.1)
	Eps float64 // Term for numerical stability (default: 1e-8)
}

func (c AdaGradConfig) withDefaults() AdaGradConfig {
	if c.LR == 0 {
		c.LR = 0.1
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	return c
}

// NewAdaGrad creates an AdaGrad rule.
func NewAdaGrad(config AdaGradConfig) *AdaGrad {
	config = config.withDefaults()
	return &AdaGrad{eta: config.LR, eps: config.Eps}
}

type adaGradState struct {
	acc *mat.VecDense
}

func (r *AdaGrad) Init(param *mat.VecDense) State {
	return &adaGradState{acc: fullLike(param, r.eps)}
}

func (r *AdaGrad) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*adaGradState)

	acc := st.acc
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		a := acc.AtVec(i) + g*g
		acc.SetVec(i, a)
		grad.SetVec(i, g*r.eta/(math.Sqrt(a)+r.eps))
	}
	return st, grad, nil
}

func (r *AdaGrad) String() string {
	return fmt.Sprintf("AdaGrad(%g)", r.eta)
}

// AdaDelta adapts step sizes from the ratio of two moving averages: one
// over squared gradients and one over squared past updates. It has no
// learning-rate hyperparameter.
//
// Update rule (dx' uses the update average from before this step):
//
//	acc  = rho * acc + (1 - rho) * dx^2
//	dx'  = dx * sqrt(dacc + eps) / sqrt(acc + eps)
//	dacc = rho * dacc + (1 - rho) * dx'^2
//
// Eps sits inside both square roots; moving it outside changes the
// numeric sequence.
type AdaDelta struct {
	rho float64
	eps float64
}

// AdaDeltaConfig holds configuration for AdaDelta.
type AdaDeltaConfig struct {
	Rho float64 // Moving-average decay (default: 0.9)
	Eps float64 // Term for numerical stability (default: 1e-8)
}

func (c AdaDeltaConfig) withDefaults() AdaDeltaConfig {
	if c.Rho == 0 {
		c.Rho = 0.9
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	return c
}

// NewAdaDelta creates an AdaDelta rule.
func NewAdaDelta(config AdaDeltaConfig) *AdaDelta {
	config = config.withDefaults()
	return &AdaDelta{rho: config.Rho, eps: config.Eps}
}

type adaDeltaState struct {
	acc  *mat.VecDense
	dacc *mat.VecDense
}

func (r *AdaDelta) Init(param *mat.VecDense) State {
	return &adaDeltaState{acc: zerosLike(param), dacc: zerosLike(param)}
}

func (r *AdaDelta) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*adaDeltaState)

	acc, dacc := st.acc, st.dacc
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		a := r.rho*acc.AtVec(i) + (1-r.rho)*g*g
		acc.SetVec(i, a)

		out := g * math.Sqrt(dacc.AtVec(i)+r.eps) / math.Sqrt(a+r.eps)
		grad.SetVec(i, out)
		dacc.SetVec(i, r.rho*dacc.AtVec(i)+(1-r.rho)*out*out)
	}
	return st, grad, nil
}

func (r *AdaDelta) String() string {
	return fmt.Sprintf("AdaDelta(%g)", r.rho)
}
