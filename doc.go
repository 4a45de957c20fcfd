// Package optimise provides composable, stateful gradient-transformation
// rules for first-order optimization.
//
// # Overview
//
// This package contains:
//   - Rule interface: Init/Apply protocol every rule implements
//   - Chain: sequential composition of rules
//   - Sixteen leaf rules: Descent, Momentum, Nesterov, RMSProp, Adam,
//     RAdam, AdaMax, OAdam, AdaGrad, AdaDelta, AMSGrad, NAdam, AdaBelief,
//     WeightDecay, ClipGrad, ClipNorm
//   - AdamW, predefined as Chain(Adam, WeightDecay)
//
// A rule does not update parameters itself. Apply returns the transformed
// gradient, and the training loop subtracts it from the parameter:
//
//	param <- param - transformed
//
// # Basic Usage
//
//	import (
//	    "gonum.org/v1/gonum/mat"
//
//	    "github.com/born-ml/optimise"
//	)
//
//	func main() {
//	    opt := optimise.NewChain(
//	        optimise.NewClipNorm(1.0),
//	        optimise.NewAdam(optimise.AdamConfig{LR: 0.001}),
//	    )
//
//	    param := mat.NewVecDense(2, []float64{3, -2})
//	    state := opt.Init(param)
//
//	    for step := 0; step < 100; step++ {
//	        grad := computeGradient(param)
//
//	        var delta *mat.VecDense
//	        var err error
//	        state, delta, err = opt.Apply(state, param, grad)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        param.SubVec(param, delta)
//	    }
//	}
//
// # State Threading
//
// Every rule keeps its per-parameter accumulators in an explicit State
// value. Init creates it, Apply consumes the previous value and returns
// the next one. Apply may mutate the state and gradient it was given, so
// callers must continue with the returned values. One state per
// (rule, parameter) pair; distinct parameters may be stepped from
// different goroutines as long as each pair's state stays on one
// goroutine at a time.
//
// # Composition
//
// Chain applies its members in declared order, feeding each member's
// output gradient to the next. Order matters: ClipNorm before Adam clips
// raw gradients, after Adam it clips update steps. An empty Chain is the
// identity.
package optimise
