package mle

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// GradientFunc computes the gradient of f at x into dst.
// len(dst) == len(x) is guaranteed by the caller.
type GradientFunc func(dst []float64, f func([]float64) float64, x []float64)

// HessianFunc computes the Hessian of f at x into the n×n symmetric dst.
type HessianFunc func(dst *mat.SymDense, f func([]float64) float64, x []float64)

// Default derivative backend: central finite differences from gonum/diff/fd.
// Both hooks exist so an automatic-differentiation backend can be swapped in
// through WithGradient/WithHessian without touching the estimation logic.

func fdGradient(dst []float64, f func([]float64) float64, x []float64) {
	fd.Gradient(dst, f, x, &fd.Settings{Formula: fd.Central})
}

func fdHessian(dst *mat.SymDense, f func([]float64) float64, x []float64) {
	fd.Hessian(dst, f, x, nil)
}
