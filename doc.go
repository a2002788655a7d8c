// Package mlefit provides maximum-likelihood estimation for user-supplied
// log-likelihood functions, with an asymptotic covariance estimate derived
// from the curvature at the mode.
//
// The estimation routine couples a gonum optimizer (to locate the mode)
// with a numerical Hessian (to turn the negated curvature at the mode into
// a covariance matrix via Cholesky inversion), and bundles both into a
// single immutable result with confidence intervals and an aligned summary
// table.
//
// # Quick Start
//
// Estimating the mean of a Gaussian with known variance:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/mlefit/mle"
//	)
//
//	func main() {
//	    loglik := func(theta []float64) float64 {
//	        d := theta[0] - 1.5
//	        return -d * d / 2
//	    }
//
//	    result, err := mle.Fit(loglik, []float64{0})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Print(result) // name  est  2.5%  97.5% table
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - mle: The estimation core (Fit, FitMode, Result, confidence
//     intervals, summary rendering, profile diagnostics)
//   - pkg/errors: Structured error types and the warning system
//   - pkg/log: slog-based structured logging setup
//   - cmd/mlefit: CLI that fits a multivariate normal to sample data
//
// # Design
//
// The optimizer and the derivative backend are external capabilities
// reached through narrow contracts: any gonum optimize.Method can be
// selected with mle.WithMethod, and the finite-difference gradient/Hessian
// can be replaced through mle.WithGradient and mle.WithHessian. Estimation
// is a single blocking call with no shared mutable state; results are
// immutable and safe for concurrent reads.
package mlefit
