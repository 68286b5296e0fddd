package calculation

import (
	"context"
	"encoding/json"

	"github.com/rpgo/payoff-planner/internal/domain"
)

// CalculationEngine wraps the pure simulators with logging and an optional
// result cache
type CalculationEngine struct {
	Cache  ResultCache // nil disables caching
	Logger Logger
}

// NewCalculationEngine creates an engine with no cache and a no-op logger
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	ce.Logger = loggerOrNop(l)
}

// SetCache installs a result cache; nil disables caching
func (ce *CalculationEngine) SetCache(c ResultCache) {
	ce.Cache = c
}

// SimulateLoan runs the single-loan simulator
func (ce *CalculationEngine) SimulateLoan(loan domain.Loan) domain.AmortizationSchedule {
	schedule := SimulateLoan(loan)
	ce.logSchedule(&schedule)
	return schedule
}

// SchedulePayoff runs the multi-debt scheduler
func (ce *CalculationEngine) SchedulePayoff(req domain.PayoffRequest) domain.PayoffPlan {
	plan := SchedulePayoff(req)
	ce.logPlan(&plan)
	return plan
}

// Run simulates params, consulting the cache first when one is configured.
// Cache failures are logged and never fail the run.
func (ce *CalculationEngine) Run(ctx context.Context, params domain.ScenarioParams) (domain.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RunResult{}, err
	}
	log := loggerOrNop(ce.Logger)

	var key string
	if ce.Cache != nil {
		k, err := CacheKey(resolveStart(params))
		if err != nil {
			log.Warnf("cache key: %v", err)
		} else {
			key = k
			if cached, ok := ce.Cache.Get(key); ok {
				var result domain.RunResult
				if err := json.Unmarshal([]byte(cached), &result); err == nil {
					log.Debugf("cache hit %s", key)
					return result, nil
				}
				log.Warnf("discarding unreadable cache entry %s", key)
			}
		}
	}

	result, err := Run(params)
	if err != nil {
		return domain.RunResult{}, err
	}
	switch {
	case result.Schedule != nil:
		ce.logSchedule(result.Schedule)
	case result.Plan != nil:
		ce.logPlan(result.Plan)
	}

	if key != "" {
		data, err := json.Marshal(result)
		if err != nil {
			log.Warnf("cache encode %s: %v", key, err)
		} else if err := ce.Cache.Set(key, string(data)); err != nil {
			log.Warnf("cache store %s: %v", key, err)
		}
	}
	return result, nil
}

// Compare runs both parameter sets through Run and diffs the results
func (ce *CalculationEngine) Compare(ctx context.Context, baseline, candidate domain.ScenarioParams) (domain.Comparison, error) {
	base, err := ce.Run(ctx, baseline)
	if err != nil {
		return domain.Comparison{}, err
	}
	cand, err := ce.Run(ctx, candidate)
	if err != nil {
		return domain.Comparison{}, err
	}
	cmp := Diff(base, cand)
	loggerOrNop(ce.Logger).Infof("compared scenarios: interest delta %s, tenure delta %d months",
		cmp.InterestDelta.StringFixed(2), cmp.TenureDelta)
	return cmp, nil
}

func (ce *CalculationEngine) logSchedule(s *domain.AmortizationSchedule) {
	log := loggerOrNop(ce.Logger)
	if !s.Computable() {
		log.Warnf("loan not computable; empty schedule returned")
		return
	}
	log.Debugf("loan simulated: installment=%s months=%d interest=%s",
		s.Installment.StringFixed(2), s.ActualTenureMonths, s.TotalInterest.StringFixed(2))
}

func (ce *CalculationEngine) logPlan(p *domain.PayoffPlan) {
	log := loggerOrNop(ce.Logger)
	if !p.IsPaidOff() {
		log.Warnf("payoff not payable within %d months", PayoffSafetyCapMonths)
		return
	}
	log.Debugf("payoff scheduled: strategy=%s months=%d interest=%s",
		p.Strategy, p.MonthsToPayoff, p.TotalInterest.StringFixed(2))
}

// resolveStart pins an unset payoff start date so the cache key reflects the
// calendar the run will actually use
func resolveStart(params domain.ScenarioParams) domain.ScenarioParams {
	if params.Kind != domain.PayoffScenario || params.Payoff == nil || !params.Payoff.StartDate.IsZero() {
		return params
	}
	out := params.Clone()
	out.Payoff.StartDate = payoffStart(*out.Payoff)
	return out
}
