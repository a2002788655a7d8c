package mle

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

// Profile is a one-dimensional slice of the log-likelihood through the
// mode: the chosen coordinate varies over mode ± width·se while the other
// coordinates stay fixed at the mode. Useful as a visual concavity check
// when an estimate looks suspicious.
type Profile struct {
	Index  int
	Name   string
	Theta  []float64
	LogLik []float64
}

// ProfileOptions controls the evaluation grid. Zero values select the
// defaults: half-width 3 standard errors, 41 grid points.
type ProfileOptions struct {
	Width  float64
	Points int
}

// Profile evaluates the log-likelihood along coordinate index. Non-finite
// values on the grid raise a warning through pkg/errors.Warn but do not
// fail the call; they are skipped when rendering.
func (r *Result) Profile(ll LogLikelihood, index int, opts ProfileOptions) (*Profile, error) {
	n := len(r.mode)
	if index < 0 || index >= n {
		return nil, errors.NewValueError("Profile",
			fmt.Sprintf("parameter index %d out of range [0, %d)", index, n))
	}

	width := opts.Width
	if width <= 0 {
		width = 3
	}
	points := opts.Points
	if points < 2 {
		points = 41
	}

	se := math.Sqrt(r.cov.At(index, index))
	lo := r.mode[index] - width*se
	step := 2 * width * se / float64(points-1)

	theta := make([]float64, points)
	vals := make([]float64, points)
	x := r.Mode()
	nonFinite := 0
	for k := 0; k < points; k++ {
		theta[k] = lo + float64(k)*step
		x[index] = theta[k]
		v := ll(x)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite++
		}
		vals[k] = v
	}

	if nonFinite > 0 {
		errors.Warn(errors.NewConvergenceWarning("profile",
			fmt.Sprintf("log-likelihood non-finite at %d of %d grid points for %s", nonFinite, points, r.names[index])))
	}

	return &Profile{Index: index, Name: r.names[index], Theta: theta, LogLik: vals}, nil
}

// Render draws the profile as a terminal graph.
func (p *Profile) Render(height int) string {
	if height <= 0 {
		height = 10
	}
	finite := make([]float64, 0, len(p.LogLik))
	for _, v := range p.LogLik {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return "profile log-likelihood: " + p.Name + ": no finite values"
	}
	return asciigraph.Plot(finite,
		asciigraph.Height(height),
		asciigraph.Caption("profile log-likelihood: "+p.Name),
	)
}

// SavePlot writes the profile as an image; the format follows the file
// extension (png, pdf, svg, ...).
func (p *Profile) SavePlot(path string) error {
	pts := make(plotter.XYs, 0, len(p.Theta))
	for k := range p.Theta {
		v := p.LogLik[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: p.Theta[k], Y: v})
	}
	if len(pts) == 0 {
		return errors.NewNumericalError("profile plot", "no finite log-likelihood values to plot")
	}

	pl := plot.New()
	pl.Title.Text = "profile log-likelihood"
	pl.X.Label.Text = p.Name
	pl.Y.Label.Text = "log-likelihood"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "mlefit: profile plot")
	}
	pl.Add(plotter.NewGrid(), line)

	return pl.Save(6*vg.Inch, 4*vg.Inch, path)
}
