package rule

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Descent implements plain gradient descent.
//
// Update rule:
//
//	dx' = eta * dx
//
// Descent is stateless; the caller subtracts dx' from the parameter.
type Descent struct {
	eta float64
}

// DescentConfig holds configuration for Descent.
type DescentConfig struct {
	LR float64 // Learning rate (default: 0.1)
}

func (c DescentConfig) withDefaults() DescentConfig {
	if c.LR == 0 {
		c.LR = 0.1
	}
	return c
}

// NewDescent creates a plain gradient-descent rule.
func NewDescent(config DescentConfig) *Descent {
	config = config.withDefaults()
	return &Descent{eta: config.LR}
}

func (r *Descent) Init(param *mat.VecDense) State { return nil }

func (r *Descent) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	grad.ScaleVec(r.eta, grad)
	return state, grad, nil
}

func (r *Descent) String() string {
	return fmt.Sprintf("Descent(%g)", r.eta)
}

// Momentum implements gradient descent with classical momentum.
//
// Update rule:
//
//	v   = rho * v + eta * dx
//	dx' = v
type Momentum struct {
	eta float64
	rho float64
}

// MomentumConfig holds configuration for Momentum.
type MomentumConfig struct {
	LR  float64 // Learning rate (default: 0.01)
	Rho float64 // Momentum decay (default: 0.9)
}

func (c MomentumConfig) withDefaults() MomentumConfig {
	if c.LR == 0 {
		c.LR = 0.01
	}
	if c.Rho == 0 {
		c.Rho = 0.9
	}
	return c
}

// NewMomentum creates a momentum gradient-descent rule.
func NewMomentum(config MomentumConfig) *Momentum {
	config = config.withDefaults()
	return &Momentum{eta: config.LR, rho: config.Rho}
}

type momentumState struct {
	velocity *mat.VecDense
}

func (r *Momentum) Init(param *mat.VecDense) State {
	return &momentumState{velocity: zerosLike(param)}
}

func (r *Momentum) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*momentumState)

	v := st.velocity
	v.ScaleVec(r.rho, v)
	v.AddScaledVec(v, r.eta, grad)

	// The velocity buffer stays owned by the state; hand back a copy in
	// the gradient buffer so downstream rules cannot clobber it.
	grad.CopyVec(v)
	return st, grad, nil
}

func (r *Momentum) String() string {
	return fmt.Sprintf("Momentum(%g, %g)", r.eta, r.rho)
}

// Nesterov implements gradient descent with Nesterov momentum.
//
// Update rule (the output uses the velocity from before this step):
//
//	dx' = -rho^2 * v + (1 + rho) * eta * dx
//	v   = rho * v - eta * dx
type Nesterov struct {
	eta float64
	rho float64
}

// NesterovConfig holds configuration for Nesterov.
type NesterovConfig struct {
	LR  float64 // Learning rate (default: 0.001)
	Rho float64 // Momentum decay (default: 0.9)
}

func (c NesterovConfig) withDefaults() NesterovConfig {
	if c.LR == 0 {
		c.LR = 0.001
	}
	if c.Rho == 0 {
		c.Rho = 0.9
	}
	return c
}

// NewNesterov creates a Nesterov-momentum gradient-descent rule.
func NewNesterov(config NesterovConfig) *Nesterov {
	config = config.withDefaults()
	return &Nesterov{eta: config.LR, rho: config.Rho}
}

type nesterovState struct {
	velocity *mat.VecDense
}

func (r *Nesterov) Init(param *mat.VecDense) State {
	return &nesterovState{velocity: zerosLike(param)}
}

func (r *Nesterov) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = r.Init(param)
	}
	st := state.(*nesterovState)

	v := st.velocity
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		vOld := v.AtVec(i)
		grad.SetVec(i, -r.rho*r.rho*vOld+(1+r.rho)*r.eta*g)
		v.SetVec(i, r.rho*vOld-r.eta*g)
	}
	return st, grad, nil
}

func (r *Nesterov) String() string {
	return fmt.Sprintf("Nesterov(%g, %g)", r.eta, r.rho)
}
