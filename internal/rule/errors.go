package rule

import "fmt"

// ErrNotFinite is returned by ClipNorm when the gradient norm is NaN or
// infinite and Throw is enabled.
type ErrNotFinite struct {
	Norm float64 // the offending norm value
	P    float64 // the norm order it was computed with
}

func (e *ErrNotFinite) Error() string {
	return fmt.Sprintf("gradient %g-norm is not finite: %g", e.P, e.Norm)
}
