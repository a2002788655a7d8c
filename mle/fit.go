// Package mle estimates maximum-likelihood parameters for user-supplied
// log-likelihood functions and derives an asymptotic covariance from the
// negated Hessian at the mode.
package mle

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

// LogLikelihood maps a parameter vector to the log-likelihood of the
// observed data. It must be finite at the initial point and twice
// differentiable near the mode for the curvature step to succeed.
type LogLikelihood func(theta []float64) float64

// Fit locates the maximizer of the log-likelihood starting from theta0 and
// estimates the asymptotic covariance of the estimator as the inverse of
// the negated Hessian at the mode.
//
// The optimizer minimizes -gamma*loglik(theta), where gamma comes from the
// configured ScalePolicy. Scaling by a positive constant does not move the
// argmax, so the returned mode is scale-invariant; only the optimizer's
// reported objective value depends on gamma. The Hessian is always taken on
// the unscaled log-likelihood.
//
// Estimation is a single blocking call. On any failure no result is
// produced; see the pkg/errors types for the failure modes.
func Fit(ll LogLikelihood, theta0 []float64, opts ...Option) (*Result, error) {
	cfg := newFitConfig(opts)
	if len(theta0) == 0 {
		return nil, errors.NewValueError("Fit", "initial parameter vector must not be empty")
	}

	gamma, err := cfg.scale.resolve(ll, theta0)
	if err != nil {
		return nil, err
	}

	optRes, err := minimize(ll, theta0, gamma, cfg)
	if err != nil {
		return nil, err
	}

	cov, err := covarianceAt(ll, optRes.X, cfg.hess)
	if err != nil {
		return nil, err
	}

	return newResult(optRes.X, cov, cfg.names, optRes)
}

// FitMode returns only the located mode. It shares the configuration
// surface of Fit but skips the Hessian and inversion work, for callers who
// do not need uncertainty quantification.
func FitMode(ll LogLikelihood, theta0 []float64, opts ...Option) ([]float64, error) {
	cfg := newFitConfig(opts)
	if len(theta0) == 0 {
		return nil, errors.NewValueError("FitMode", "initial parameter vector must not be empty")
	}

	gamma, err := cfg.scale.resolve(ll, theta0)
	if err != nil {
		return nil, err
	}

	optRes, err := minimize(ll, theta0, gamma, cfg)
	if err != nil {
		return nil, err
	}

	mode := make([]float64, len(optRes.X))
	copy(mode, optRes.X)
	return mode, nil
}

// minimize runs the configured optimizer on the negated, scaled objective.
// The convergence check happens once, immediately after the optimizer
// returns; no retry is attempted here.
func minimize(ll LogLikelihood, theta0 []float64, gamma float64, cfg *fitConfig) (*optimize.Result, error) {
	obj := func(x []float64) float64 {
		return -gamma * ll(x)
	}

	p := optimize.Problem{
		Func: obj,
		Grad: func(grad, x []float64) {
			cfg.grad(grad, obj, x)
		},
	}

	settings := cfg.settings
	if settings == nil {
		settings = &optimize.Settings{GradientThreshold: 1e-6}
	}

	cfg.logger.Debug("starting optimization",
		"method", methodName(cfg.method),
		"scale", gamma,
		"dim", len(theta0),
	)

	result, err := optimize.Minimize(p, theta0, settings, cfg.method)
	if err != nil {
		return nil, convergenceError(cfg.method, result, err)
	}
	if serr := result.Status.Err(); serr != nil {
		return nil, convergenceError(cfg.method, result, serr)
	}

	cfg.logger.Debug("optimizer converged",
		"status", result.Status.String(),
		"iterations", result.Stats.MajorIterations,
		"fval", result.F,
	)

	return result, nil
}

func convergenceError(method optimize.Method, result *optimize.Result, cause error) error {
	iterations := 0
	status := "unknown"
	if result != nil {
		iterations = result.Stats.MajorIterations
		status = result.Status.String()
	}
	return errors.Wrap(
		errors.NewConvergenceError(methodName(method), iterations, status),
		cause.Error(),
	)
}

func methodName(m optimize.Method) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", m), "*optimize.")
}
