package mle

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

// Log-density of an isotropic bivariate normal with mean (1, 2) and
// standard deviation 3, observed at a single point. The mode is the
// observation and the inverse curvature is 9 per axis.
func gaussLoglik(theta []float64) float64 {
	d1 := theta[0] - 1.0
	d2 := theta[1] - 2.0
	return -(d1*d1 + d2*d2) / 18.0
}

func TestFitGaussianClosedForm(t *testing.T) {
	result, err := Fit(gaussLoglik, []float64{0, 0})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	mode := result.Mode()
	wantMode := []float64{1.0, 2.0}
	for i := range wantMode {
		if math.Abs(mode[i]-wantMode[i]) > 1e-4 {
			t.Errorf("mode[%d] = %v, want %v", i, mode[i], wantMode[i])
		}
	}

	cov := result.Cov()
	wantCov := [][]float64{{9, 0}, {0, 9}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(cov.At(i, j)-wantCov[i][j]) > 1e-3 {
				t.Errorf("cov[%d][%d] = %v, want %v", i, j, cov.At(i, j), wantCov[i][j])
			}
		}
	}

	se := result.StdErr()
	for i := range se {
		if math.Abs(se[i]-3.0) > 1e-3 {
			t.Errorf("stderr[%d] = %v, want 3.0", i, se[i])
		}
	}

	if result.Diagnostics() == nil {
		t.Error("Diagnostics() = nil, want optimizer output")
	}
}

func TestFitScaleInvariance(t *testing.T) {
	baseline, err := Fit(gaussLoglik, []float64{0, 0}, WithScale(NoScale()))
	if err != nil {
		t.Fatalf("Fit() with NoScale error = %v", err)
	}
	baseMode := baseline.Mode()

	policies := []struct {
		name   string
		policy ScalePolicy
	}{
		{"default", DefaultScale()},
		{"fixed small", FixedScale(0.1)},
		{"fixed large", FixedScale(25.0)},
	}

	for _, tt := range policies {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Fit(gaussLoglik, []float64{0, 0}, WithScale(tt.policy))
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			mode := result.Mode()
			for i := range baseMode {
				if math.Abs(mode[i]-baseMode[i]) > 1e-5 {
					t.Errorf("mode[%d] = %v, want %v (scale policy must not move the mode)", i, mode[i], baseMode[i])
				}
			}
		})
	}
}

func TestFitModeMatchesFit(t *testing.T) {
	result, err := Fit(gaussLoglik, []float64{0, 0})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	mode, err := FitMode(gaussLoglik, []float64{0, 0})
	if err != nil {
		t.Fatalf("FitMode() error = %v", err)
	}

	full := result.Mode()
	for i := range full {
		if math.Abs(mode[i]-full[i]) > 1e-8 {
			t.Errorf("FitMode()[%d] = %v, Fit().Mode()[%d] = %v", i, mode[i], i, full[i])
		}
	}
}

func TestFitNonConvergence(t *testing.T) {
	result, err := Fit(gaussLoglik, []float64{100, -100},
		WithSettings(&optimize.Settings{
			GradientThreshold: 1e-12,
			MajorIterations:   1,
		}),
	)
	if err == nil {
		t.Fatal("Fit() with a 1-iteration budget succeeded, want ConvergenceError")
	}
	if result != nil {
		t.Error("Fit() returned a result alongside an error")
	}

	var convErr *errors.ConvergenceError
	if !errors.As(err, &convErr) {
		t.Fatalf("Fit() error = %v, want ConvergenceError", err)
	}
	if !strings.Contains(err.Error(), "concave") {
		t.Errorf("error message %q should suggest checking concavity", err.Error())
	}
}

func TestFitNonConcaveCurvature(t *testing.T) {
	// Flat in the second coordinate: the optimizer converges, but the
	// negated Hessian has a zero eigenvalue and is not positive definite.
	flat := func(theta []float64) float64 {
		d := theta[0] - 1.0
		return -d * d
	}

	result, err := Fit(flat, []float64{0, 0})
	if err == nil {
		t.Fatal("Fit() on a likelihood flat in one coordinate succeeded, want NumericalError")
	}
	if result != nil {
		t.Error("Fit() returned a result alongside an error")
	}

	var numErr *errors.NumericalError
	if !errors.As(err, &numErr) {
		t.Fatalf("Fit() error = %v, want NumericalError", err)
	}
}

func TestFitNonFiniteInitialEvaluation(t *testing.T) {
	bad := func(theta []float64) float64 {
		return math.NaN()
	}

	_, err := Fit(bad, []float64{0}, WithScale(DefaultScale()))
	if err == nil {
		t.Fatal("Fit() with a NaN log-likelihood at theta0 succeeded, want error")
	}

	var instErr *errors.NumericalInstabilityError
	if !errors.As(err, &instErr) {
		t.Fatalf("Fit() error = %v, want NumericalInstabilityError", err)
	}
}

func TestFitEmptyInitialVector(t *testing.T) {
	_, err := Fit(gaussLoglik, nil)
	if err == nil {
		t.Fatal("Fit() with an empty initial vector succeeded, want ValueError")
	}

	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Fatalf("Fit() error = %v, want ValueError", err)
	}
}

func TestFitVarNameMismatch(t *testing.T) {
	result, err := Fit(gaussLoglik, []float64{0, 0}, WithVarNames("only one"))
	if err == nil {
		t.Fatal("Fit() with 1 name for 2 parameters succeeded, want DimensionError")
	}
	if result != nil {
		t.Error("Fit() returned a result alongside an error")
	}

	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Fit() error = %v, want DimensionError", err)
	}
	if dimErr.Expected != 2 || dimErr.Got != 1 {
		t.Errorf("DimensionError{Expected: %d, Got: %d}, want {2, 1}", dimErr.Expected, dimErr.Got)
	}
}

func TestFitDefaultNames(t *testing.T) {
	loglik := func(theta []float64) float64 {
		total := 0.0
		for _, v := range theta {
			total -= v * v
		}
		return total
	}

	result, err := Fit(loglik, []float64{0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	want := []string{"θ1", "θ2", "θ3"}
	names := result.Names()
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFitCustomMethod(t *testing.T) {
	result, err := Fit(gaussLoglik, []float64{0, 0}, WithMethod(&optimize.NelderMead{}))
	if err != nil {
		t.Fatalf("Fit() with NelderMead error = %v", err)
	}
	mode := result.Mode()
	if math.Abs(mode[0]-1.0) > 1e-3 || math.Abs(mode[1]-2.0) > 1e-3 {
		t.Errorf("mode = %v, want approximately [1, 2]", mode)
	}
}

func TestFitLogsConvergence(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Fit(gaussLoglik, []float64{0, 0}, WithLogger(logger))
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "starting optimization") {
		t.Errorf("log output missing optimization start event: %q", out)
	}
	if !strings.Contains(out, "optimizer converged") {
		t.Errorf("log output missing convergence event: %q", out)
	}
}
