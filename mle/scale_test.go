package mle

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

func TestParseScalePolicy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"default keyword", "default", "default", false},
		{"none keyword", "none", "none", false},
		{"positive literal", "2.5", "2.5", false},
		{"integer literal", "4", "4", false},
		{"zero", "0", "", true},
		{"negative", "-1.5", "", true},
		{"nan", "NaN", "", true},
		{"inf", "Inf", "", true},
		{"garbage", "sometimes", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := ParseScalePolicy(tt.input)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScalePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var cfgErr *errors.ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("ParseScalePolicy(%q) error = %v, want ConfigurationError", tt.input, err)
				}
				return
			}
			if got := policy.String(); got != tt.want {
				t.Errorf("ParseScalePolicy(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScalePolicyResolve(t *testing.T) {
	// A constant log-likelihood makes the expected gamma exact.
	loglik := func(theta []float64) float64 { return -4.0 }
	theta0 := []float64{0}

	tests := []struct {
		name   string
		policy ScalePolicy
		want   float64
	}{
		{"default", DefaultScale(), 1.0 / 5.0},
		{"none", NoScale(), 1.0},
		{"fixed", FixedScale(0.25), 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.resolve(loglik, theta0)
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-15 {
				t.Errorf("resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScalePolicyResolveRejectsBadFixed(t *testing.T) {
	for _, v := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		_, err := FixedScale(v).resolve(func([]float64) float64 { return 0 }, []float64{0})
		if err == nil {
			t.Errorf("FixedScale(%v).resolve() succeeded, want ConfigurationError", v)
			continue
		}
		var cfgErr *errors.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("FixedScale(%v).resolve() error = %v, want ConfigurationError", v, err)
		}
	}
}

func TestScalePolicyResolveNonFiniteLoglik(t *testing.T) {
	bad := func([]float64) float64 { return math.Inf(-1) }

	_, err := DefaultScale().resolve(bad, []float64{0})
	if err == nil {
		t.Fatal("resolve() with -Inf log-likelihood succeeded, want error")
	}
	var instErr *errors.NumericalInstabilityError
	if !errors.As(err, &instErr) {
		t.Fatalf("resolve() error = %v, want NumericalInstabilityError", err)
	}
}
