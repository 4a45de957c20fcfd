package rule

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// AdamConfig holds configuration shared by the Adam family of rules
// (Adam, RAdam, AdaMax, OAdam, AMSGrad, NAdam, AdaBelief).
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Moment decays (default: [0.9, 0.99])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

func (c AdamConfig) withDefaults() AdamConfig {
	if c.LR == 0 {
		c.LR = 0.001
	}
	if c.Betas[0] == 0 {
		c.Betas[0] = 0.9
	}
	if c.Betas[1] == 0 {
		c.Betas[1] = 0.99
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	return c
}

// Adam implements the Adam (Adaptive Moment Estimation) rule.
//
// Adam keeps exponential moving averages of the gradient (first moment)
// and its square (second moment), with bias correction for the zero
// initialization:
//
//	m    = beta1 * m + (1 - beta1) * dx
//	v    = beta2 * v + (1 - beta2) * dx^2
//	dx'  = m / (1 - beta1^t) / (sqrt(v / (1 - beta2^t)) + eps) * eta
//
// The decay powers beta^t are tracked multiplicatively in the state and
// advanced after each step, so correction always uses the pre-update
// power.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	eta   float64
	beta1 float64
	beta2 float64
	eps   float64
}

// NewAdam creates an Adam rule.
func NewAdam(config AdamConfig) *Adam {
	config = config.withDefaults()
	return &Adam{eta: config.LR, beta1: config.Betas[0], beta2: config.Betas[1], eps: config.Eps}
}

type adamState struct {
	m     *mat.VecDense // first moment
	v     *mat.VecDense // second moment
	beta1 float64       // running beta1^t
	beta2 float64       // running beta2^t
}

func (r *Adam) Init(param *mat.VecDense) State {
	return &adamState{
		m:     zerosLike(param),
		v:     zerosLike(param),
		beta1: r.beta1,
		beta2: r.beta2,
	}
}

func (r *Adam) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*adamState)

	m, v := st.m, st.v
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		mi := r.beta1*m.AtVec(i) + (1-r.beta1)*g
		vi := r.beta2*v.AtVec(i) + (1-r.beta2)*g*g
		m.SetVec(i, mi)
		v.SetVec(i, vi)

		mHat := mi / (1 - st.beta1)
		vHat := vi / (1 - st.beta2)
		grad.SetVec(i, mHat/(math.Sqrt(vHat)+r.eps)*r.eta)
	}
	st.beta1 *= r.beta1
	st.beta2 *= r.beta2
	return st, grad, nil
}

func (r *Adam) String() string {
	return fmt.Sprintf("Adam(%g, (%g, %g))", r.eta, r.beta1, r.beta2)
}

// AMSGrad implements the AMSGrad variant of Adam, which divides by the
// running elementwise maximum of the second moment instead of the moment
// itself, guaranteeing a non-increasing effective step size.
//
// Update rule:
//
//	m    = beta1 * m + (1 - beta1) * dx
//	v    = beta2 * v + (1 - beta2) * dx^2
//	vcap = max(vcap, v)
//	dx'  = eta * m / (sqrt(vcap) + eps)
//
// All three accumulators are seeded at eps rather than zero; AMSGrad
// applies no bias correction.
//
// Reference: "On the Convergence of Adam and Beyond" (Reddi et al., 2018)
type AMSGrad struct {
	eta   float64
	beta1 float64
	beta2 float64
	eps   float64
}

// NewAMSGrad creates an AMSGrad rule.
func NewAMSGrad(config AdamConfig) *AMSGrad {
	config = config.withDefaults()
	return &AMSGrad{eta: config.LR, beta1: config.Betas[0], beta2: config.Betas[1], eps: config.Eps}
}

type amsGradState struct {
	m    *mat.VecDense
	v    *mat.VecDense
	vcap *mat.VecDense
}

func (r *AMSGrad) Init(param *mat.VecDense) State {
	return &amsGradState{
		m:    fullLike(param, r.eps),
		v:    fullLike(param, r.eps),
		vcap: fullLike(param, r.eps),
	}
}

func (r *AMSGrad) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*amsGradState)

	m, v, vcap := st.m, st.v, st.vcap
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		mi := r.beta1*m.AtVec(i) + (1-r.beta1)*g
		vi := r.beta2*v.AtVec(i) + (1-r.beta2)*g*g
		m.SetVec(i, mi)
		v.SetVec(i, vi)

		vc := math.Max(vcap.AtVec(i), vi)
		vcap.SetVec(i, vc)
		grad.SetVec(i, r.eta*mi/(math.Sqrt(vc)+r.eps))
	}
	return st, grad, nil
}

func (r *AMSGrad) String() string {
	return fmt.Sprintf("AMSGrad(%g, (%g, %g))", r.eta, r.beta1, r.beta2)
}

// AdamWConfig holds configuration for AdamW.
type AdamWConfig struct {
	LR          float64    // Learning rate (default: 0.001)
	Betas       [2]float64 // Moment decays (default: [0.9, 0.99])
	Eps         float64    // Term for numerical stability (default: 1e-8)
	WeightDecay float64    // Decoupled decay coefficient (default: 0)
}

// NewAdamW creates the AdamW rule: Adam with decoupled weight decay,
// expressed as Chain(Adam, WeightDecay) so the decay is added after the
// adaptive scaling rather than folded into the moment estimates.
//
// Reference: "Decoupled Weight Decay Regularization" (Loshchilov & Hutter, 2019)
func NewAdamW(config AdamWConfig) *Chain {
	return NewChain(
		NewAdam(AdamConfig{LR: config.LR, Betas: config.Betas, Eps: config.Eps}),
		NewWeightDecay(config.WeightDecay),
	)
}
