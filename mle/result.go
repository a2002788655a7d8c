package mle

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

// Result is the immutable outcome of a successful estimation: the located
// mode, the covariance estimate, the display names, and the raw optimizer
// diagnostics. Nothing mutates a Result after construction, so it is safe
// to read from multiple goroutines without synchronization.
type Result struct {
	mode  []float64
	cov   *mat.SymDense
	names []string
	diag  *optimize.Result
}

// newResult is pure assembly over what Fit already computed. Name-count
// validation happens here; default names are generated when none were
// supplied.
func newResult(mode []float64, cov *mat.SymDense, names []string, diag *optimize.Result) (*Result, error) {
	n := len(mode)

	if names == nil {
		names = defaultNames(n)
	}
	if len(names) != n {
		return nil, errors.NewDimensionError("Result: variable names", n, len(names))
	}

	r := &Result{
		mode:  make([]float64, n),
		cov:   mat.NewSymDense(n, nil),
		names: make([]string, n),
		diag:  diag,
	}
	copy(r.mode, mode)
	copy(r.names, names)
	r.cov.CopySym(cov)

	return r, nil
}

// defaultNames generates θ1..θn.
func defaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "θ" + strconv.Itoa(i+1)
	}
	return names
}

// Dim returns the parameter count.
func (r *Result) Dim() int {
	return len(r.mode)
}

// Mode returns a copy of the located mode, the maximum-likelihood point
// estimate.
func (r *Result) Mode() []float64 {
	mode := make([]float64, len(r.mode))
	copy(mode, r.mode)
	return mode
}

// Cov returns a copy of the covariance estimate, the inverse negated
// Hessian of the log-likelihood at the mode.
func (r *Result) Cov() *mat.SymDense {
	cov := mat.NewSymDense(len(r.mode), nil)
	cov.CopySym(r.cov)
	return cov
}

// Names returns a copy of the per-parameter display names, positionally
// aligned with Mode.
func (r *Result) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// StdErr returns the marginal standard errors, the square roots of the
// covariance diagonal.
func (r *Result) StdErr() []float64 {
	se := make([]float64, len(r.mode))
	for i := range se {
		se[i] = math.Sqrt(r.cov.At(i, i))
	}
	return se
}

// Diagnostics returns the optimizer's raw output record, passed through
// unmodified for inspection. Treat it as read-only.
func (r *Result) Diagnostics() *optimize.Result {
	return r.diag
}
