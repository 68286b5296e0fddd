// Command planner runs loan amortization and debt payoff simulations and
// compares saved scenarios.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/payoff-planner/internal/calculation"
	"github.com/rpgo/payoff-planner/internal/config"
	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/rpgo/payoff-planner/internal/output"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// app carries what the commands share once settings are loaded
type app struct {
	settings *config.Settings
	logger   slogLogger
	engine   *calculation.CalculationEngine
	parser   *config.InputParser

	comparator *calculation.Comparator
	closers    []io.Closer
}

func (a *app) setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(configFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		settings.Output.Format = f
	}
	if d, _ := cmd.Flags().GetString("output-dir"); d != "" {
		settings.Output.Dir = d
	}
	a.settings = settings
	a.logger = newLogger(cmd.ErrOrStderr(), settings.Logging)
	a.parser = config.NewInputParser()

	a.engine = calculation.NewCalculationEngine()
	a.engine.SetLogger(a.logger)
	cache, closer := openCache(settings.Cache)
	a.engine.SetCache(cache)
	a.closers = append(a.closers, closer)
	return nil
}

// scenarios opens the configured store on first use
func (a *app) scenarios(ctx context.Context) (*calculation.Comparator, error) {
	if a.comparator != nil {
		return a.comparator, nil
	}
	s, closer, err := openStore(ctx, a.settings.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", a.settings.Store.Backend, err)
	}
	a.closers = append(a.closers, closer)
	a.comparator = calculation.NewComparator(s, a.engine)
	return a.comparator, nil
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// loadPlan reads a plan file and checks it is of the wanted kind; an empty
// kind accepts either
func (a *app) loadPlan(path string, want domain.ScenarioKind) (domain.ScenarioParams, error) {
	params, err := a.parser.LoadFromFile(path)
	if err != nil {
		return domain.ScenarioParams{}, err
	}
	if want != "" && params.Kind != want {
		return domain.ScenarioParams{}, fmt.Errorf("%s: expected a %s plan, got %s", path, want, params.Kind)
	}
	return params, nil
}

// render writes the report to stdout, or to a timestamped file when an
// output directory is configured
func (a *app) render(cmd *cobra.Command, r *output.Report) error {
	f := output.GetFormatterByName(a.settings.Output.Format)
	if f == nil {
		_, err := output.Render(r, a.settings.Output.Format)
		return err
	}
	if a.settings.Output.Dir != "" {
		if err := os.MkdirAll(a.settings.Output.Dir, 0o755); err != nil {
			return err
		}
		path, err := output.WriteFormatted(f, r, a.settings.Output.Dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	data, err := f.Format(r)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Loan amortization and debt payoff planner",
		Long: `planner simulates reducing-balance loans with prepayments, schedules
multi-debt payoff under the avalanche or snowball strategy, and compares
scenarios side by side or against saved snapshots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "settings file (default: ./planner.yaml)")
	root.PersistentFlags().String("format", "", "output format: "+formatHelp())
	root.PersistentFlags().String("output-dir", "", "write reports to timestamped files in this directory")

	root.AddCommand(
		newVersionCmd(),
		newEMICmd(a),
		newAmortizeCmd(a),
		newPayoffCmd(a),
		newCompareCmd(a),
		newScenarioCmd(a),
		newInitCmd(a),
	)
	return root
}

func formatHelp() string {
	return strings.Join(output.AvailableFormatterNames(), ", ")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// settings are irrelevant here
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "planner %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
