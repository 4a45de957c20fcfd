package rule

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func benchApply(b *testing.B, r Rule) {
	const n = 1024
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i%7) - 3
	}
	param := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(n, make([]float64, n))
	state := r.Init(param)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(grad.RawVector().Data, data)
		var err error
		state, grad, err = r.Apply(state, param, grad)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDescent_Apply(b *testing.B) {
	benchApply(b, NewDescent(DescentConfig{}))
}

func BenchmarkMomentum_Apply(b *testing.B) {
	benchApply(b, NewMomentum(MomentumConfig{}))
}

func BenchmarkAdam_Apply(b *testing.B) {
	benchApply(b, NewAdam(AdamConfig{}))
}

func BenchmarkClipNorm_Apply(b *testing.B) {
	benchApply(b, NewClipNorm(1))
}

func BenchmarkChain_Apply(b *testing.B) {
	benchApply(b, NewChain(
		NewClipNorm(1),
		NewAdam(AdamConfig{}),
		NewWeightDecay(0.0005),
	))
}
