package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Garsondee/Sphere-Search/internal/config"
	"github.com/Garsondee/Sphere-Search/internal/logging"
	"github.com/Garsondee/Sphere-Search/internal/round"
	"github.com/Garsondee/Sphere-Search/internal/search"
)

type options struct {
	rounds     int
	seed       int64
	configPath string
	logLevel   string
	verbose    bool
	metrics    bool
	plotPath   string
}

// summary aggregates a batch of rounds. Path statistics cover successful
// rounds only.
type summary struct {
	rounds    int
	succeeded int
	exhausted int
	canceled  int

	pathMean, pathStd float64
	costMean          float64
	expMean, expStd   float64
	expMedian         float64
	walls             int
	simTime           time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "headless-report",
		Short: "Run search rounds without a window and report the outcomes",
		Long: `headless-report runs the same chain of rounds the windowed animation shows,
on a virtual clock, and prints one line per round plus aggregate statistics.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.rounds <= 0 {
				return fmt.Errorf("--rounds must be > 0, got %d", opts.rounds)
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.rounds, "rounds", 10, "number of rounds to run")
	f.Int64Var(&opts.seed, "seed", 42, "RNG seed for grid generation (overrides the config file)")
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	f.BoolVar(&opts.verbose, "verbose", false, "print every recorded event after the report")
	f.BoolVar(&opts.metrics, "metrics", false, "print the collected Prometheus counters")
	f.StringVar(&opts.plotPath, "plot", "", "write a PNG histogram of expansions per round")
	return cmd
}

func run(ctx context.Context, out, errOut io.Writer, opts options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Seed = opts.seed

	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log := logging.NewWithWriter(errOut, level)

	reg := prometheus.NewRegistry()
	sched := round.NewTickScheduler()
	events := round.NewEventLog(opts.verbose, 0)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintf(out, "=== Headless Search Report ===\n")
	fmt.Fprintf(out, "rounds=%d seed=%d density=%g delays=%s/%s/%s\n\n",
		opts.rounds, cfg.Seed, cfg.Grid.Density, cfg.Delays.Solve, cfg.Delays.Retrace, cfg.Delays.Reset)

	results := make([]round.Result, 0, opts.rounds)
	driver, err := round.NewDriver(cfg,
		round.WithScheduler(sched),
		round.WithLogger(log),
		round.WithEvents(events),
		round.WithMetrics(round.NewMetrics(reg)),
		round.OnRoundComplete(func(res round.Result) {
			results = append(results, res)
			fmt.Fprintln(out, res.String())
			if len(results) >= opts.rounds {
				cancel()
			}
		}),
	)
	if err != nil {
		return err
	}
	if err := driver.Start(ctx); err != nil {
		return err
	}
	for len(results) < opts.rounds && sched.RunNext() {
	}
	if err := driver.Err(); err != nil {
		return err
	}

	s := summarize(results)
	s.simTime = sched.Now()
	printSummary(out, s)

	if opts.metrics {
		if err := printMetrics(out, reg); err != nil {
			return err
		}
	}
	if opts.verbose {
		fmt.Fprintf(out, "\n=== Events ===\n%s", events.Format())
	}
	if opts.plotPath != "" {
		if err := writePlot(opts.plotPath, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nplot written to %s\n", opts.plotPath)
	}
	return nil
}

func summarize(results []round.Result) summary {
	s := summary{rounds: len(results)}
	var paths, costs, exps []float64
	for _, r := range results {
		switch r.Status {
		case search.StatusSucceeded:
			s.succeeded++
			paths = append(paths, float64(r.PathLen))
			costs = append(costs, float64(r.PathCost))
		case search.StatusExhausted:
			s.exhausted++
		case search.StatusCanceled:
			s.canceled++
		}
		exps = append(exps, float64(r.Expansions))
		s.walls += r.Walls
	}
	if len(paths) > 0 {
		s.pathMean, s.pathStd = meanStd(paths)
		s.costMean = stat.Mean(costs, nil)
	}
	if len(exps) > 0 {
		s.expMean, s.expStd = meanStd(exps)
		sort.Float64s(exps)
		s.expMedian = stat.Quantile(0.5, stat.Empirical, exps, nil)
	}
	return s
}

// meanStd is stat.MeanStdDev without the NaN deviation of a single sample.
func meanStd(x []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func successRate(s summary) float64 {
	if s.rounds == 0 {
		return 0
	}
	return float64(s.succeeded) / float64(s.rounds)
}

func printSummary(out io.Writer, s summary) {
	fmt.Fprintf(out, "\n=== Aggregate ===\n")
	fmt.Fprintf(out, "rounds=%d succeeded=%d exhausted=%d canceled=%d success_rate=%.2f\n",
		s.rounds, s.succeeded, s.exhausted, s.canceled, successRate(s))
	fmt.Fprintf(out, "path_len mean=%.2f std=%.2f  cost mean=%.1f\n", s.pathMean, s.pathStd, s.costMean)
	fmt.Fprintf(out, "expansions mean=%.2f std=%.2f median=%.0f\n", s.expMean, s.expStd, s.expMedian)
	fmt.Fprintf(out, "walls total=%d  simulated_time=%s\n", s.walls, s.simTime.Round(time.Millisecond))
}

// printMetrics dumps every counter and histogram sample count in reg.
func printMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintf(out, "\n=== Metrics ===\n")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			label := ""
			for _, lp := range m.GetLabel() {
				label += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "%s%s %g\n", mf.GetName(), label, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(out, "%s_count%s %d\n", mf.GetName(), label, m.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}

func writePlot(path string, results []round.Result) error {
	values := make(plotter.Values, len(results))
	for i, r := range results {
		values[i] = float64(r.Expansions)
	}
	p := plot.New()
	p.Title.Text = "Expansions per round"
	p.X.Label.Text = "expansions"
	p.Y.Label.Text = "rounds"
	hist, err := plotter.NewHist(values, 10)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	p.Add(hist)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
