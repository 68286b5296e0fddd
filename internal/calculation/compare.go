package calculation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/rpgo/payoff-planner/internal/store"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidParams is returned when scenario params are not a valid variant
var ErrInvalidParams = errors.New("invalid scenario params")

// Run simulates one parameter set with the engine matching its kind. The params
// are deep-copied first, so the caller's values are never touched.
func Run(params domain.ScenarioParams) (domain.RunResult, error) {
	if err := params.Validate(); err != nil {
		return domain.RunResult{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	params = params.Clone()
	result := domain.RunResult{Params: params.Clone()}

	switch params.Kind {
	case domain.LoanScenario:
		schedule := SimulateLoan(*params.Loan)
		result.Schedule = &schedule
		result.Metrics = ScheduleMetrics(schedule)
	case domain.PayoffScenario:
		plan := SchedulePayoff(*params.Payoff)
		result.Plan = &plan
		result.Metrics = PlanMetrics(plan)
	}
	return result, nil
}

// ScheduleMetrics extracts the comparable figures of a loan run
func ScheduleMetrics(s domain.AmortizationSchedule) domain.Metrics {
	return domain.Metrics{
		TotalInterest: s.TotalInterest,
		TotalAmount:   s.TotalAmount,
		TenureMonths:  s.ActualTenureMonths,
		Payable:       s.Computable(),
	}
}

// PlanMetrics extracts the comparable figures of a payoff run
func PlanMetrics(p domain.PayoffPlan) domain.Metrics {
	return domain.Metrics{
		TotalInterest: p.TotalInterest,
		TotalAmount:   p.TotalPaid(),
		TenureMonths:  p.MonthsToPayoff,
		Payable:       p.IsPaidOff(),
	}
}

// Compare runs baseline and candidate independently and diffs them. Deltas are
// candidate minus baseline, so swapping the arguments negates every delta.
func Compare(baseline, candidate domain.ScenarioParams) (domain.Comparison, error) {
	base, err := Run(baseline)
	if err != nil {
		return domain.Comparison{}, fmt.Errorf("baseline: %w", err)
	}
	cand, err := Run(candidate)
	if err != nil {
		return domain.Comparison{}, fmt.Errorf("candidate: %w", err)
	}
	return Diff(base, cand), nil
}

// Diff builds a comparison from two finished runs
func Diff(baseline, candidate domain.RunResult) domain.Comparison {
	return domain.Comparison{
		Baseline:         baseline,
		Candidate:        candidate,
		InterestDelta:    candidate.Metrics.TotalInterest.Sub(baseline.Metrics.TotalInterest),
		TenureDelta:      candidate.Metrics.TenureMonths - baseline.Metrics.TenureMonths,
		TotalAmountDelta: candidate.Metrics.TotalAmount.Sub(baseline.Metrics.TotalAmount),
	}
}

// Comparator pairs the engine with the scenario store so the active, unsaved
// parameters can be measured against saved snapshots
type Comparator struct {
	Store  store.Store
	Engine *CalculationEngine
}

// NewComparator creates a comparator; a nil engine gets a default one
func NewComparator(s store.Store, engine *CalculationEngine) *Comparator {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &Comparator{Store: s, Engine: engine}
}

// SavedComparison is the outcome of comparing active params against one saved
// scenario. Comparison uses the saved scenario as baseline, so a negative
// InterestDelta means the active params are cheaper.
type SavedComparison struct {
	Active     domain.RunResult   `json:"active"`
	Saved      *domain.Scenario   `json:"saved,omitempty"`
	Comparison *domain.Comparison `json:"comparison,omitempty"`
}

// CompareWithSaved runs the active params first, then loads and runs the saved
// scenario. A store failure is returned as an error alongside the finished
// active result, which is never affected by it.
func (c *Comparator) CompareWithSaved(ctx context.Context, id string, active domain.ScenarioParams) (SavedComparison, error) {
	activeRun, err := c.Engine.Run(ctx, active)
	if err != nil {
		return SavedComparison{}, fmt.Errorf("active scenario: %w", err)
	}
	out := SavedComparison{Active: activeRun}

	saved, err := c.Store.Load(ctx, id)
	if err != nil {
		loggerOrNop(c.Engine.Logger).Warnf("saved scenario %s unavailable: %v", id, err)
		return out, fmt.Errorf("load scenario %s: %w", id, err)
	}
	savedRun, err := c.Engine.Run(ctx, saved.Working())
	if err != nil {
		return out, fmt.Errorf("saved scenario %s: %w", id, err)
	}
	cmp := Diff(savedRun, activeRun)
	out.Saved = &saved
	out.Comparison = &cmp
	return out, nil
}

// SaveScenario snapshots params under name and returns the new ID
func (c *Comparator) SaveScenario(ctx context.Context, name string, params domain.ScenarioParams) (string, error) {
	id, err := c.Store.Save(ctx, name, params)
	if err != nil {
		return "", fmt.Errorf("save scenario: %w", err)
	}
	loggerOrNop(c.Engine.Logger).Infof("saved scenario %s (%s)", id, params.Kind)
	return id, nil
}

// LoadScenario returns a fresh working copy of a saved scenario's params
func (c *Comparator) LoadScenario(ctx context.Context, id string) (domain.ScenarioParams, error) {
	s, err := c.Store.Load(ctx, id)
	if err != nil {
		return domain.ScenarioParams{}, fmt.Errorf("load scenario %s: %w", id, err)
	}
	return s.Working(), nil
}

func (c *Comparator) ListScenarios(ctx context.Context) ([]string, error) {
	return c.Store.List(ctx)
}

func (c *Comparator) DeleteScenario(ctx context.Context, id string) error {
	if err := c.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete scenario %s: %w", id, err)
	}
	return nil
}

// RankSaved compares active against each saved scenario concurrently and
// returns the results ordered by the saved scenario's total interest, cheapest
// first. Any load or run failure aborts the whole ranking.
func (c *Comparator) RankSaved(ctx context.Context, active domain.ScenarioParams, ids []string) ([]SavedComparison, error) {
	activeRun, err := c.Engine.Run(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("active scenario: %w", err)
	}

	results := make([]SavedComparison, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			saved, err := c.Store.Load(gctx, id)
			if err != nil {
				return fmt.Errorf("load scenario %s: %w", id, err)
			}
			savedRun, err := c.Engine.Run(gctx, saved.Working())
			if err != nil {
				return fmt.Errorf("saved scenario %s: %w", id, err)
			}
			cmp := Diff(savedRun, activeRun)
			results[i] = SavedComparison{Active: activeRun, Saved: &saved, Comparison: &cmp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		a := results[i].Comparison.Baseline.Metrics.TotalInterest
		b := results[j].Comparison.Baseline.Metrics.TotalInterest
		if !a.Equal(b) {
			return a.LessThan(b)
		}
		return results[i].Saved.ID < results[j].Saved.ID
	})
	return results, nil
}
