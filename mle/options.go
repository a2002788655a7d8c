package mle

import (
	"log/slog"

	"gonum.org/v1/gonum/optimize"
)

// Option is a function that configures an estimation run.
type Option func(*fitConfig)

type fitConfig struct {
	scale    ScalePolicy
	method   optimize.Method
	settings *optimize.Settings
	names    []string
	grad     GradientFunc
	hess     HessianFunc
	logger   *slog.Logger
}

func newFitConfig(opts []Option) *fitConfig {
	cfg := &fitConfig{
		scale: DefaultScale(),
		grad:  fdGradient,
		hess:  fdHessian,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.method == nil {
		cfg.method = &optimize.BFGS{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// WithScale sets the scale policy applied to the objective.
func WithScale(p ScalePolicy) Option {
	return func(cfg *fitConfig) {
		cfg.scale = p
	}
}

// WithMethod sets the optimization method from gonum/optimize.
// The default is BFGS.
func WithMethod(method optimize.Method) Option {
	return func(cfg *fitConfig) {
		cfg.method = method
	}
}

// WithSettings forwards iteration/tolerance settings to the optimizer.
// The thresholds apply to the scaled objective and its gradient, so a
// non-default scale policy changes what a given tolerance means.
func WithSettings(s *optimize.Settings) Option {
	return func(cfg *fitConfig) {
		cfg.settings = s
	}
}

// WithVarNames sets display names for the parameters. The list length
// must match the parameter count; a mismatch fails the estimation with a
// DimensionError when the result is assembled.
func WithVarNames(names ...string) Option {
	return func(cfg *fitConfig) {
		cfg.names = names
	}
}

// WithGradient replaces the derivative backend used for the optimizer's
// gradient evaluations.
func WithGradient(grad GradientFunc) Option {
	return func(cfg *fitConfig) {
		if grad != nil {
			cfg.grad = grad
		}
	}
}

// WithHessian replaces the derivative backend used for the curvature
// computation at the mode.
func WithHessian(hess HessianFunc) Option {
	return func(cfg *fitConfig) {
		if hess != nil {
			cfg.hess = hess
		}
	}
}

// WithLogger sets the logger for fit diagnostics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *fitConfig) {
		cfg.logger = logger
	}
}
