package rule

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// WeightDecay adds an L2 penalty gradient to the incoming gradient:
//
//	dx' = dx + gamma * x
//
// On its own this is classic L2 regularization; chained after an adaptive
// rule (see NewAdamW) it becomes decoupled weight decay.
type WeightDecay struct {
	gamma float64
}

// NewWeightDecay creates a weight-decay rule with coefficient gamma.
func NewWeightDecay(gamma float64) *WeightDecay {
	return &WeightDecay{gamma: gamma}
}

func (r *WeightDecay) Init(param *mat.VecDense) State { return nil }

func (r *WeightDecay) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	grad.AddScaledVec(grad, r.gamma, param)
	return state, grad, nil
}

func (r *WeightDecay) String() string {
	return fmt.Sprintf("WeightDecay(%g)", r.gamma)
}
