package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpgo/payoff-planner/internal/calculation"
	"github.com/rpgo/payoff-planner/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter matches a requested name
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ErrEmptyReport is returned when a report carries nothing to render
var ErrEmptyReport = errors.New("report has no results")

// Report is what formatters render. Exactly one of the result fields is set.
type Report struct {
	Title       string
	SummaryOnly bool // skip per-month ledgers and timelines

	Run        *domain.RunResult
	Comparison *domain.Comparison
	Strategies *calculation.StrategyComparison
	Ranking    []calculation.SavedComparison
}

// labeledRun is one run in a report with its display label and, for runs
// measured against another, the comparison that produced the deltas
type labeledRun struct {
	Label  string
	Result domain.RunResult
	Delta  *domain.Comparison
}

// runs flattens the report into display order
func (r *Report) runs() ([]labeledRun, error) {
	switch {
	case r.Run != nil:
		return []labeledRun{{Label: runLabel(r.Run.Params.Kind), Result: *r.Run}}, nil
	case r.Comparison != nil:
		return []labeledRun{
			{Label: "baseline", Result: r.Comparison.Baseline},
			{Label: "candidate", Result: r.Comparison.Candidate, Delta: r.Comparison},
		}, nil
	case r.Strategies != nil:
		av := strategyRun(r.Strategies.Avalanche)
		sn := strategyRun(r.Strategies.Snowball)
		delta := calculation.Diff(av, sn)
		return []labeledRun{
			{Label: string(domain.Avalanche), Result: av},
			{Label: string(domain.Snowball), Result: sn, Delta: &delta},
		}, nil
	case len(r.Ranking) > 0:
		out := []labeledRun{{Label: "active", Result: r.Ranking[0].Active}}
		for _, sc := range r.Ranking {
			if sc.Saved == nil || sc.Comparison == nil {
				continue
			}
			out = append(out, labeledRun{Label: sc.Saved.Name, Result: sc.Comparison.Baseline, Delta: sc.Comparison})
		}
		return out, nil
	}
	return nil, ErrEmptyReport
}

func strategyRun(plan domain.PayoffPlan) domain.RunResult {
	p := plan
	return domain.RunResult{Plan: &p, Metrics: calculation.PlanMetrics(plan)}
}

func runLabel(kind domain.ScenarioKind) string {
	if kind == "" {
		return "run"
	}
	return string(kind)
}

// Render formats a report with the named formatter (aliases allowed)
func Render(r *Report, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return f.Format(r)
}

// WriteFormatted runs a formatter and writes the output to a timestamped file in dir.
func WriteFormatted(f Formatter, r *Report, dir string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("payoff_report_%s.%s", time.Now().Format("20060102_150405"), f.Extension()))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}
