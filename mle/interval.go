package mle

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

// DefaultTailProb is the tail probability used by String: 2.5% in each
// tail, a 95% confidence interval.
const DefaultTailProb = 0.025

// Interval is a symmetric confidence interval around a point estimate.
type Interval struct {
	Lower float64
	Upper float64
}

// ConfInt computes per-parameter symmetric intervals theta_i ± se_i*z,
// where z is the (1-p)-quantile of the standard normal distribution. The
// tail probability p must lie in (0, 0.5); at 0.5 and beyond the interval
// would be degenerate or reversed. The returned slice is positionally
// aligned with Mode and Names.
func (r *Result) ConfInt(p float64) ([]Interval, error) {
	if !(p > 0 && p < 0.5) {
		return nil, errors.NewValueError("ConfInt",
			fmt.Sprintf("tail probability must be in (0, 0.5), got %v", p))
	}

	z := distuv.UnitNormal.Quantile(1 - p)
	se := r.StdErr()

	intervals := make([]Interval, len(r.mode))
	for i, theta := range r.mode {
		intervals[i] = Interval{
			Lower: theta - se[i]*z,
			Upper: theta + se[i]*z,
		}
	}
	return intervals, nil
}
