package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/mlefit/mle"
	"github.com/YuminosukeSato/mlefit/pkg/log"
)

var (
	tailProb   float64
	scaleFlag  string
	methodName string
	maxIter    int
	gradTol    float64
	varNames   []string
	logLevel   string
	configFile string
	profileIdx int
	plotFile   string
)

// fileConfig mirrors the command-line flags; explicitly set flags win over
// the config file.
type fileConfig struct {
	Tail    *float64 `yaml:"tail"`
	Scale   string   `yaml:"scale"`
	Method  string   `yaml:"method"`
	MaxIter int      `yaml:"max_iter"`
	GradTol *float64 `yaml:"grad_tol"`
	Names   []string `yaml:"names"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mlefit <data.csv>",
		Short: "maximum-likelihood normal fit with confidence intervals",
		Long: `mlefit reads numeric samples (CSV, one row per observation, one column
per variate) and fits an independent normal model to each column by maximum
likelihood, estimating the mean and the log standard deviation. It prints a
summary table with point estimates and confidence bounds.`,
		Args: cobra.ExactArgs(1),
		RunE: runFit,

		SilenceUsage: true,
	}

	rootCmd.Flags().Float64Var(&tailProb, "tail", mle.DefaultTailProb, "tail probability for the confidence bounds, in (0, 0.5)")
	rootCmd.Flags().StringVar(&scaleFlag, "scale", "default", "objective scale policy: default, none, or a positive number")
	rootCmd.Flags().StringVar(&methodName, "method", "bfgs", "optimizer: bfgs, lbfgs, cg, neldermead")
	rootCmd.Flags().IntVar(&maxIter, "max-iter", 0, "major iteration limit (0 = optimizer default)")
	rootCmd.Flags().Float64Var(&gradTol, "grad-tol", 1e-6, "gradient norm threshold for convergence")
	rootCmd.Flags().StringSliceVar(&varNames, "names", nil, "display names, one per parameter")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file; explicit flags take precedence")
	rootCmd.Flags().IntVar(&profileIdx, "profile", -1, "render a terminal profile of the given parameter index")
	rootCmd.Flags().StringVar(&plotFile, "plot", "", "save the profile as an image (requires --profile)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runFit(cmd *cobra.Command, args []string) error {
	log.SetupConsole(os.Stderr, logLevel)

	if configFile != "" {
		if err := applyConfig(cmd, configFile); err != nil {
			return err
		}
	}

	data, err := readSamples(args[0])
	if err != nil {
		return err
	}
	rows := len(data)
	cols := len(data[0])

	scale, err := mle.ParseScalePolicy(scaleFlag)
	if err != nil {
		return err
	}
	method, err := pickMethod(methodName)
	if err != nil {
		return err
	}

	loglik, theta0, names := normalModel(data)
	if len(varNames) > 0 {
		names = varNames
	}

	settings := &optimize.Settings{
		GradientThreshold: gradTol,
		MajorIterations:   maxIter,
	}

	result, err := mle.Fit(loglik, theta0,
		mle.WithScale(scale),
		mle.WithMethod(method),
		mle.WithSettings(settings),
		mle.WithVarNames(names...),
	)
	if err != nil {
		return err
	}

	fmt.Printf("observations: %d, variates: %d\n", rows, cols)
	summary, err := result.Summary(tailProb)
	if err != nil {
		return err
	}
	fmt.Print(summary)

	if profileIdx >= 0 {
		profile, err := result.Profile(loglik, profileIdx, mle.ProfileOptions{})
		if err != nil {
			return err
		}
		fmt.Println(profile.Render(0))
		if plotFile != "" {
			if err := profile.SavePlot(plotFile); err != nil {
				return err
			}
			fmt.Println("profile plot written to", plotFile)
		}
	}

	return nil
}

// applyConfig fills flag values from a YAML file for flags the user did not
// set explicitly.
func applyConfig(cmd *cobra.Command, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	flags := cmd.Flags()
	if cfg.Tail != nil && !flags.Changed("tail") {
		tailProb = *cfg.Tail
	}
	if cfg.Scale != "" && !flags.Changed("scale") {
		scaleFlag = cfg.Scale
	}
	if cfg.Method != "" && !flags.Changed("method") {
		methodName = cfg.Method
	}
	if cfg.MaxIter != 0 && !flags.Changed("max-iter") {
		maxIter = cfg.MaxIter
	}
	if cfg.GradTol != nil && !flags.Changed("grad-tol") {
		gradTol = *cfg.GradTol
	}
	if len(cfg.Names) > 0 && !flags.Changed("names") {
		varNames = cfg.Names
	}
	return nil
}

// readSamples parses a CSV of floats, one observation per row. Blank lines
// and lines starting with '#' are skipped.
func readSamples(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("data file %s contains no observations", path)
	}

	data := make([][]float64, 0, len(records))
	for lineno, record := range records {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %q is not a number", lineno+1, j+1, field)
			}
			row[j] = v
		}
		if len(row) != len(records[0]) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", lineno+1, len(row), len(records[0]))
		}
		data = append(data, row)
	}
	return data, nil
}

// normalModel builds the log-likelihood of independent per-column normals
// with unknown mean and unknown scale. Parameters are mu per column
// followed by log(sigma) per column; the log parameterization keeps the
// optimization unconstrained.
func normalModel(data [][]float64) (mle.LogLikelihood, []float64, []string) {
	rows := len(data)
	cols := len(data[0])

	const halfLog2Pi = 0.9189385332046727

	loglik := func(theta []float64) float64 {
		total := 0.0
		for j := 0; j < cols; j++ {
			mu := theta[j]
			logSigma := theta[cols+j]
			invVar := math.Exp(-2 * logSigma)
			for i := 0; i < rows; i++ {
				d := data[i][j] - mu
				total += -halfLog2Pi - logSigma - 0.5*d*d*invVar
			}
		}
		return total
	}

	theta0 := make([]float64, 2*cols)
	names := make([]string, 2*cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = data[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if !(std > 0) || math.IsNaN(std) {
			std = 1
		}
		theta0[j] = mean
		theta0[cols+j] = math.Log(std)
		names[j] = fmt.Sprintf("mu%d", j+1)
		names[cols+j] = fmt.Sprintf("log_sigma%d", j+1)
	}

	return loglik, theta0, names
}

func pickMethod(name string) (optimize.Method, error) {
	switch strings.ToLower(name) {
	case "bfgs":
		return &optimize.BFGS{}, nil
	case "lbfgs":
		return &optimize.LBFGS{}, nil
	case "cg":
		return &optimize.CG{}, nil
	case "neldermead":
		return &optimize.NelderMead{}, nil
	default:
		return nil, fmt.Errorf("unknown method %q: expected bfgs, lbfgs, cg, or neldermead", name)
	}
}
