package rule

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ClipGrad clamps every gradient element into [-delta, delta].
type ClipGrad struct {
	delta float64
}

// NewClipGrad creates an elementwise gradient-clipping rule.
func NewClipGrad(delta float64) *ClipGrad {
	return &ClipGrad{delta: delta}
}

func (r *ClipGrad) Init(param *mat.VecDense) State { return nil }

func (r *ClipGrad) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	for i := 0; i < grad.Len(); i++ {
		g := grad.AtVec(i)
		grad.SetVec(i, math.Min(math.Max(g, -r.delta), r.delta))
	}
	return state, grad, nil
}

func (r *ClipGrad) String() string {
	return fmt.Sprintf("ClipGrad(%g)", r.delta)
}

// ClipNorm rescales the gradient so its p-norm does not exceed Max,
// preserving direction:
//
//	dx' = dx * min(max / norm(dx, p), 1)
//
// A gradient already inside the threshold passes through unchanged.
//
// When the norm comes out NaN or infinite, ClipNorm returns *ErrNotFinite
// if Throw is enabled; with Throw disabled it proceeds with the non-finite
// scale so the caller sees the NaN/Inf downstream.
type ClipNorm struct {
	max   float64
	p     float64
	throw bool
}

// NewClipNorm creates a norm-clipping rule with threshold max, using the
// 2-norm and failing on non-finite norms.
func NewClipNorm(max float64) *ClipNorm {
	return NewClipNormP(max, 2, true)
}

// NewClipNormP creates a norm-clipping rule with an explicit norm order
// and non-finite handling.
func NewClipNormP(max, p float64, throw bool) *ClipNorm {
	return &ClipNorm{max: max, p: p, throw: throw}
}

func (r *ClipNorm) Init(param *mat.VecDense) State { return nil }

func (r *ClipNorm) Apply(state State, param, grad *mat.VecDense) (State, *mat.VecDense, error) {
	nrm := vecNorm(grad, r.p)
	if math.IsNaN(nrm) || math.IsInf(nrm, 0) {
		if r.throw {
			return state, grad, errors.WithStack(&ErrNotFinite{Norm: nrm, P: r.p})
		}
		// Fall through: the non-finite scale propagates into the output.
	}
	grad.ScaleVec(math.Min(r.max/nrm, 1), grad)
	return state, grad, nil
}

func (r *ClipNorm) String() string {
	return fmt.Sprintf("ClipNorm(%g, %g)", r.max, r.p)
}

// vecNorm computes the p-norm of v. VecDense views can carry a stride, so
// only stride-1 vectors go straight to floats.Norm.
func vecNorm(v *mat.VecDense, p float64) float64 {
	rv := v.RawVector()
	if rv.Inc == 1 {
		return floats.Norm(rv.Data, p)
	}
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return floats.Norm(data, p)
}
