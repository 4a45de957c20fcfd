// Package rule implements composable gradient-transformation rules for
// first-order optimization.
//
// A Rule turns a raw gradient into the step an external training loop
// subtracts from the parameter. Rules are immutable configuration; all
// per-parameter bookkeeping (momentum buffers, moment estimates, decay
// powers) lives in an explicit State value threaded by the caller:
//
//	opt := rule.NewAdam(rule.AdamConfig{})
//	state := opt.Init(param)
//
//	for step := range steps {
//	    grad := computeGradient(param)
//	    state, delta, err = opt.Apply(state, param, grad)
//	    param.SubVec(param, delta)
//	}
//
// Rules compose with Chain, which pipes the gradient through its members
// in declared order.
package rule

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// State holds the per-(rule, parameter) accumulators threaded between
// Apply calls. Its concrete type is owned by the rule that produced it;
// callers treat it as opaque.
type State any

// Rule is a stateful elementwise gradient transformation.
//
// Init allocates the initial state for one parameter. It inspects only the
// parameter's length, never its values, and is called once per parameter
// before the first Apply.
//
// Apply consumes the previous state and the current gradient and returns
// the next state together with the transformed gradient. The caller then
// performs the update itself:
//
//	param <- param - transformed
//
// Apply never mutates param. It may mutate the state and gradient values
// it was given and return them, or return freshly allocated equivalents;
// callers must always continue with the returned values and must not
// reuse the arguments they passed in. Passing a nil state is equivalent
// to passing the result of Init.
//
// Apply is deterministic. The only rule that can fail is ClipNorm, which
// returns *ErrNotFinite when the gradient norm is NaN or infinite and
// Throw is enabled; every other rule propagates non-finite values
// silently.
type Rule interface {
	Init(param *mat.VecDense) State
	Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error)
	fmt.Stringer
}

// Chain is a composite rule that applies its members in declared order,
// feeding each member's output gradient to the next. Its state is the
// ordered slice of member states.
//
// Order is significant: clipping before scaling is not the same rule as
// scaling before clipping. An empty Chain is the identity transformation.
type Chain struct {
	rules []Rule
}

// NewChain creates a Chain over the given rules, applied in argument order.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: rules}
}

// Rules returns the member rules in application order.
func (c *Chain) Rules() []Rule {
	return c.rules
}

// Init returns one state per member, positionally parallel to the members.
func (c *Chain) Init(param *mat.VecDense) State {
	states := make([]State, len(c.rules))
	for i, r := range c.rules {
		states[i] = r.Init(param)
	}
	return states
}

// Apply threads the gradient through the members in order. A member
// error aborts the chain and is returned wrapped with the member's
// position.
func (c *Chain) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	if state == nil {
		state = c.Init(param)
	}
	states := state.([]State)

	for i, r := range c.rules {
		next, out, err := r.Apply(states[i], param, grad)
		if err != nil {
			return states, grad, errors.Wrapf(err, "chain member %d (%s)", i, r)
		}
		states[i] = next
		grad = out
	}
	return states, grad, nil
}

// String renders the chain as Chain(member1, member2, ...) in application
// order. The format is for diagnostics only.
func (c *Chain) String() string {
	var b strings.Builder
	b.WriteString("Chain(")
	for i, r := range c.rules {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteString(")")
	return b.String()
}

// zerosLike allocates a zero vector with the parameter's length.
func zerosLike(param *mat.VecDense) *mat.VecDense {
	return mat.NewVecDense(param.Len(), nil)
}

// fullLike allocates a vector with the parameter's length, every element
// set to v.
func fullLike(param *mat.VecDense, v float64) *mat.VecDense {
	data := make([]float64, param.Len())
	for i := range data {
		data[i] = v
	}
	return mat.NewVecDense(param.Len(), data)
}
