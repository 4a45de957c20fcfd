package rule

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RAdam implements Rectified Adam. While the variance of the adaptive
// step is not yet tractable (early steps), it falls back to bias-corrected
// momentum; once enough steps have passed it switches to the full Adam
// update scaled by a rectification factor.
//
// With rhoInf = 2 / (1 - beta2) - 1 and, at step t,
//
//	rho = rhoInf - 2 * t * beta2^t / (1 - beta2^t)
//
// the update is, for rho > 4:
//
//	r   = sqrt((rho-4) * (rho-2) * rhoInf / ((rhoInf-4) * (rhoInf-2) * rho))
//	dx' = m / (1 - beta1^t) / (sqrt(v / (1 - beta2^t)) + eps) * eta * r
//
// and otherwise:
//
//	dx' = m / (1 - beta1^t) * eta
//
// Reference: "On the Variance of the Adaptive Learning Rate and Beyond"
// (Liu et al., 2020)
type RAdam struct {
	eta   float64
	beta1 float64
	beta2 float64
	eps   float64
}

// NewRAdam creates a Rectified Adam rule.
func NewRAdam(config AdamConfig) *RAdam {
	config = config.withDefaults()
	return &RAdam{eta: config.LR, beta1: config.Betas[0], beta2: config.Betas[1], eps: config.Eps}
}

type rAdamState struct {
	m     *mat.VecDense
	v     *mat.VecDense
	beta1 float64
	beta2 float64
	t     int
}

func (r *RAdam) Init(param *mat.VecDense) State {
	return &rAdamState{
		m:     zerosLike(param),
		v:     zerosLike(param),
		beta1: r.beta1,
		beta2: r.beta2,
		t:     1,
	}
}

func (r *RAdam) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*rAdamState)

	rhoInf := 2/(1-r.beta2) - 1
	rho := rhoInf - 2*float64(st.t)*st.beta2/(1-st.beta2)

	m, v := st.m, st.v
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		mi := r.beta1*m.AtVec(i) + (1-r.beta1)*g
		vi := r.beta2*v.AtVec(i) + (1-r.beta2)*g*g
		m.SetVec(i, mi)
		v.SetVec(i, vi)

		if rho > 4 {
			rect := math.Sqrt((rho - 4) * (rho - 2) * rhoInf / ((rhoInf - 4) * (rhoInf - 2) * rho))
			mHat := mi / (1 - st.beta1)
			vHat := vi / (1 - st.beta2)
			grad.SetVec(i, mHat/(math.Sqrt(vHat)+r.eps)*r.eta*rect)
		} else {
			grad.SetVec(i, mi/(1-st.beta1)*r.eta)
		}
	}
	st.beta1 *= r.beta1
	st.beta2 *= r.beta2
	st.t++
	return st, grad, nil
}

func (r *RAdam) String() string {
	return fmt.Sprintf("RAdam(%g, (%g, %g))", r.eta, r.beta1, r.beta2)
}

// AdaMax is the infinity-norm variant of Adam: the second moment is
// replaced by a decayed running maximum of gradient magnitudes.
//
// Update rule:
//
//	m   = beta1 * m + (1 - beta1) * dx
//	u   = max(beta2 * u, |dx|)
//	dx' = (eta / (1 - beta1^t)) * m / (u + eps)
type AdaMax struct {
	eta   float64
	beta1 float64
	beta2 float64
	eps   float64
}

// NewAdaMax creates an AdaMax rule.
func NewAdaMax(config AdamConfig) *AdaMax {
	config = config.withDefaults()
	return &AdaMax{eta: config.LR, beta1: config.Betas[0], beta2: config.Betas[1], eps: config.Eps}
}

type adaMaxState struct {
	m     *mat.VecDense
	u     *mat.VecDense
	beta1 float64
	beta2 float64
}

func (r *AdaMax) Init(param *mat.VecDense) State {
	return &adaMaxState{
		m:     zerosLike(param),
		u:     zerosLike(param),
		beta1: r.beta1,
		beta2: r.beta2,
	}
}

func (r *AdaMax) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*adaMaxState)

	m, u := st.m, st.u
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		mi := r.beta1*m.AtVec(i) + (1-r.beta1)*g
		ui := math.Max(r.beta2*u.AtVec(i), math.Abs(g))
		m.SetVec(i, mi)
		u.SetVec(i, ui)

		grad.SetVec(i, r.eta/(1-st.beta1)*mi/(ui+r.eps))
	}
	st.beta1 *= r.beta1
	st.beta2 *= r.beta2
	return st, grad, nil
}

func (r *AdaMax) String() string {
	return fmt.Sprintf("AdaMax(%g, (%g, %g))", r.eta, r.beta1, r.beta2)
}

// OAdam implements Optimistic Adam. Each step extrapolates one Adam term
// ahead by replaying the difference against the previous step's term:
//
//	m    = beta1 * m + (1 - beta1) * dx
//	v    = beta2 * v + (1 - beta2) * dx^2
//	term = eta * m / (1 - beta1^t) / (sqrt(v / (1 - beta2^t)) + eps)
//	dx'  = 2 * term - termPrev
//
// termPrev is the term from before this step; it starts at zero.
//
// Reference: "Training GANs with Optimism" (Daskalakis et al., 2018)
type OAdam struct {
	eta   float64
	beta1 float64
	beta2 float64
	eps   float64
}

// NewOAdam creates an Optimistic Adam rule.
func NewOAdam(config AdamConfig) *OAdam {
	config = config.withDefaults()
	return &OAdam{eta: config.LR, beta1: config.Betas[0], beta2: config.Betas[1], eps: config.Eps}
}

type oAdamState struct {
	m     *mat.VecDense
	v     *mat.VecDense
	term  *mat.VecDense
	beta1 float64
	beta2 float64
}

func (r *OAdam) Init(param *mat.VecDense) State {
	return &oAdamState{
		m:     zerosLike(param),
		v:     zerosLike(param),
		term:  zerosLike(param),
		beta1: r.beta1,
		beta2: r.beta2,
	}
}

func (r *OAdam) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*oAdamState)

	m, v, term := st.m, st.v, st.term
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		mi := r.beta1*m.AtVec(i) + (1-r.beta1)*g
		vi := r.beta2*v.AtVec(i) + (1-r.beta2)*g*g
		m.SetVec(i, mi)
		v.SetVec(i, vi)

		termOld := term.AtVec(i)
		mHat := mi / (1 - st.beta1)
		vHat := vi / (1 - st.beta2)
		termNew := r.eta * mHat / (math.Sqrt(vHat) + r.eps)
		term.SetVec(i, termNew)
		grad.SetVec(i, 2*termNew-termOld)
	}
	st.beta1 *= r.beta1
	st.beta2 *= r.beta2
	return st, grad, nil
}

func (r *OAdam) String() string {
	return fmt.Sprintf("OAdam(%g, (%g, %g))", r.eta, r.beta1, r.beta2)
}

// NAdam implements Nesterov-accelerated Adam, folding the lookahead of
// Nesterov momentum into the first-moment bias correction:
//
//	m   = beta1 * m + (1 - beta1) * dx
//	v   = beta2 * v + (1 - beta2) * dx^2
//	dx' = eta * (beta1 * m / (1 - beta1 * beta1^t) + (1 - beta1) * dx / (1 - beta1^t))
//	          / (sqrt(v * beta2 / (1 - beta2^t)) + eps)
//
// Reference: "Incorporating Nesterov Momentum into Adam" (Dozat, 2016)
type NAdam struct {
	eta   float64
	beta1 float64
	beta2 float64
	eps   float64
}

// NewNAdam creates a NAdam rule.
func NewNAdam(config AdamConfig) *NAdam {
	config = config.withDefaults()
	return &NAdam{eta: config.LR, beta1: config.Betas[0], beta2: config.Betas[1], eps: config.Eps}
}

type nAdamState struct {
	m     *mat.VecDense
	v     *mat.VecDense
	beta1 float64
	beta2 float64
}

func (r *NAdam) Init(param *mat.VecDense) State {
	return &nAdamState{
		m:     zerosLike(param),
		v:     zerosLike(param),
		beta1: r.beta1,
		beta2: r.beta2,
	}
}

func (r *NAdam) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*nAdamState)

	m, v := st.m, st.v
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		mi := r.beta1*m.AtVec(i) + (1-r.beta1)*g
		vi := r.beta2*v.AtVec(i) + (1-r.beta2)*g*g
		m.SetVec(i, mi)
		v.SetVec(i, vi)

		num := r.beta1*mi/(1-r.beta1*st.beta1) + (1-r.beta1)*g/(1-st.beta1)
		den := math.Sqrt(vi*r.beta2/(1-st.beta2)) + r.eps
		grad.SetVec(i, r.eta*num/den)
	}
	st.beta1 *= r.beta1
	st.beta2 *= r.beta2
	return st, grad, nil
}

func (r *NAdam) String() string {
	return fmt.Sprintf("NAdam(%g, (%g, %g))", r.eta, r.beta1, r.beta2)
}

// AdaBelief adapts the step size to the "belief" in the gradient: the
// second accumulator tracks the squared deviation of the gradient from
// its own moving average rather than the raw squared gradient.
//
// Update rule:
//
//	m   = beta1 * m + (1 - beta1) * dx
//	s   = beta2 * s + (1 - beta2) * (dx - m)^2
//	dx' = eta * m / (sqrt(s) + eps)
//
// The deviation uses the already-updated m.
//
// Reference: "AdaBelief Optimizer" (Zhuang et al., 2020)
type AdaBelief struct {
	eta   float64
	beta1 float64
	beta2 float64
	eps   float64
}

// NewAdaBelief creates an AdaBelief rule.
func NewAdaBelief(config AdamConfig) *AdaBelief {
	config = config.withDefaults()
	return &AdaBelief{eta: config.LR, beta1: config.Betas[0], beta2: config.Betas[1], eps: config.Eps}
}

type adaBeliefState struct {
	m *mat.VecDense
	s *mat.VecDense
}

func (r *AdaBelief) Init(param *mat.VecDense) State {
	return &adaBeliefState{m: zerosLike(param), s: zerosLike(param)}
}

func (r *AdaBelief) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*adaBeliefState)

	m, s := st.m, st.s
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		mi := r.beta1*m.AtVec(i) + (1-r.beta1)*g
		dev := g - mi
		si := r.beta2*s.AtVec(i) + (1-r.beta2)*dev*dev
		m.SetVec(i, mi)
		s.SetVec(i, si)

		grad.SetVec(i, r.eta*mi/(math.Sqrt(si)+r.eps))
	}
	return st, grad, nil
}

func (r *AdaBelief) String() string {
	return fmt.Sprintf("AdaBelief(%g, (%g, %g))", r.eta, r.beta1, r.beta2)
}
