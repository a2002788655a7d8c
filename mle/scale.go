package mle

import (
	"math"
	"strconv"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

type scaleKind int

const (
	scaleDefault scaleKind = iota
	scaleNone
	scaleFixed
)

// ScalePolicy selects the positive factor gamma applied to the
// log-likelihood before optimization. The optimizer minimizes
// -gamma*loglik(theta); a positive gamma does not move the mode, it only
// brings the objective's magnitude near unit scale so that step-size
// heuristics behave well.
type ScalePolicy struct {
	kind  scaleKind
	value float64
}

// DefaultScale computes gamma = 1/(1+|loglik(theta0)|) from the initial point.
func DefaultScale() ScalePolicy {
	return ScalePolicy{kind: scaleDefault}
}

// NoScale leaves the objective unscaled (gamma = 1).
func NoScale() ScalePolicy {
	return ScalePolicy{kind: scaleNone}
}

// FixedScale uses the given value directly as gamma.
// The value must be positive; this is checked when the policy is resolved.
func FixedScale(v float64) ScalePolicy {
	return ScalePolicy{kind: scaleFixed, value: v}
}

// ParseScalePolicy parses a textual policy: "default", "none", or a
// positive decimal literal. Any other form fails with a ConfigurationError
// naming the offending value.
func ParseScalePolicy(s string) (ScalePolicy, error) {
	switch s {
	case "default":
		return DefaultScale(), nil
	case "none":
		return NoScale(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return ScalePolicy{}, errors.NewConfigurationError("scale", s)
	}
	return FixedScale(v), nil
}

// String returns the textual form accepted by ParseScalePolicy.
func (p ScalePolicy) String() string {
	switch p.kind {
	case scaleNone:
		return "none"
	case scaleFixed:
		return strconv.FormatFloat(p.value, 'g', -1, 64)
	default:
		return "default"
	}
}

// resolve turns the policy into a concrete gamma. The default policy
// evaluates the log-likelihood once at theta0; a non-finite value there
// propagates as a NumericalInstabilityError.
func (p ScalePolicy) resolve(ll LogLikelihood, theta0 []float64) (float64, error) {
	switch p.kind {
	case scaleNone:
		return 1.0, nil
	case scaleFixed:
		if p.value <= 0 || math.IsInf(p.value, 0) || math.IsNaN(p.value) {
			return 0, errors.NewConfigurationError("scale", p.value)
		}
		return p.value, nil
	default:
		f := ll(theta0)
		if err := errors.CheckScalar("loglik(theta0)", f); err != nil {
			return 0, err
		}
		return 1.0 / (1.0 + math.Abs(f)), nil
	}
}
