package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/rpgo/payoff-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// PayoffSafetyCapMonths stops a multi-debt run that would otherwise never finish.
const PayoffSafetyCapMonths = 360

// workingDebt is the scheduler's private, mutable copy of a caller's debt
type workingDebt struct {
	domain.Debt
	key   string
	rate  decimal.Decimal
	index int
}

// SchedulePayoff runs a multi-debt payoff under a shared monthly budget.
//
// Each month every open debt accrues interest and receives its minimum; the
// remaining budget is then handed out in strategy order, re-ranked every month
// because balances (and so snowball order) shift as debts shrink. The caller's
// debts are never modified. Interest is charged before any payment, unlike
// SimulateLoan.
//
// The budget counts minimums of open debts only, so a cleared debt's minimum
// leaves the budget unless RolloverMinimums is set.
func SchedulePayoff(req domain.PayoffRequest) domain.PayoffPlan {
	req = req.Clone()
	if req.Strategy == "" {
		req.Strategy = domain.Avalanche
	}
	start := payoffStart(req)

	keys := debtKeys(req.Debts)
	debts := make([]*workingDebt, 0, len(req.Debts))
	for i, d := range req.Debts {
		if d.Balance.IsNegative() {
			d.Balance = decimal.Zero
		}
		debts = append(debts, &workingDebt{Debt: d, key: keys[i], rate: d.MonthlyRate(), index: i})
	}

	plan := domain.PayoffPlan{
		Strategy:              req.Strategy,
		TotalDebt:             req.TotalDebt(),
		TotalMonthlyCommitted: req.TotalMonthlyCommitted(),
		TotalInterest:         decimal.Zero,
		DebtPayoffMonths:      make(map[string]int, len(debts)),
	}
	for _, d := range debts {
		if d.Balance.IsZero() {
			plan.DebtPayoffMonths[d.key] = 0
		}
	}

	month := 0
	for aggregateBalance(debts).IsPositive() && month < PayoffSafetyCapMonths {
		month++
		budget := req.ExtraPayment
		for _, d := range debts {
			if req.RolloverMinimums || d.Balance.IsPositive() {
				budget = budget.Add(d.MinPayment)
			}
		}

		monthInterest := decimal.Zero
		monthPaid := decimal.Zero
		for _, d := range debts {
			if !d.Balance.IsPositive() {
				continue
			}
			interest := d.Balance.Mul(d.rate).Round(InterestScale)
			d.Balance = d.Balance.Add(interest)
			monthInterest = monthInterest.Add(interest)

			pay := decimal.Min(d.MinPayment, d.Balance)
			if pay.IsPositive() {
				d.Balance = d.Balance.Sub(pay)
				budget = budget.Sub(pay)
				monthPaid = monthPaid.Add(pay)
			}
		}

		for _, d := range priorityOrder(debts, req.Strategy) {
			if !budget.IsPositive() {
				break
			}
			pay := decimal.Min(budget, d.Balance)
			d.Balance = d.Balance.Sub(pay)
			budget = budget.Sub(pay)
			monthPaid = monthPaid.Add(pay)
		}

		balances := make(map[string]decimal.Decimal, len(debts))
		for _, d := range debts {
			balances[d.key] = d.Balance
			if _, done := plan.DebtPayoffMonths[d.key]; !done && d.Balance.IsZero() {
				plan.DebtPayoffMonths[d.key] = month
			}
		}
		plan.TotalInterest = plan.TotalInterest.Add(monthInterest)
		plan.Timeline = append(plan.Timeline, domain.PayoffTimelineEntry{
			Month:                month,
			CalendarDate:         dateutil.AddMonths(start, month),
			AggregateBalance:     aggregateBalance(debts),
			MonthlyInterestPaid:  monthInterest,
			MonthlyPrincipalPaid: decimal.Max(decimal.Zero, monthPaid.Sub(monthInterest)),
			MonthlyPaid:          monthPaid,
			Balances:             balances,
		})
	}

	if aggregateBalance(debts).IsPositive() {
		plan.Outcome = domain.NotPayable
		plan.MonthsToPayoff = month
		return plan
	}
	plan.Outcome = domain.PaidOff
	payoffDate := dateutil.AddMonths(start, month)
	plan.ProjectedPayoffDate = &payoffDate
	plan.MonthsToPayoff = dateutil.MonthsBetween(start, payoffDate)
	return plan
}

// debtKeys names each debt in timelines and payoff months. Debt.Key() is used
// when it is set and unique; otherwise the 1-based input position stands in
// ("debt-3"), suffixed further if that is taken too.
func debtKeys(debts []domain.Debt) []string {
	keys := make([]string, len(debts))
	used := make(map[string]bool, len(debts))
	for _, d := range debts {
		if k := d.Key(); k != "" {
			used[k] = true
		}
	}
	taken := make(map[string]bool, len(debts))
	for i, d := range debts {
		k := d.Key()
		if k == "" || taken[k] {
			base := fmt.Sprintf("debt-%d", i+1)
			if k != "" {
				base = fmt.Sprintf("%s#%d", k, i+1)
			}
			k = base
			for n := 2; taken[k] || used[k]; n++ {
				k = fmt.Sprintf("%s-%d", base, n)
			}
		}
		taken[k] = true
		keys[i] = k
	}
	return keys
}

// priorityOrder returns the open debts ranked for surplus funds
func priorityOrder(debts []*workingDebt, strategy domain.Strategy) []*workingDebt {
	open := make([]*workingDebt, 0, len(debts))
	for _, d := range debts {
		if d.Balance.IsPositive() {
			open = append(open, d)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return strategyLess(strategy, open[i], open[j])
	})
	return open
}

// strategyLess is the single comparator behind both strategies. Avalanche ranks
// by rate (ties: smaller balance), snowball by balance (ties: higher rate); input
// order breaks any remaining tie.
func strategyLess(strategy domain.Strategy, a, b *workingDebt) bool {
	switch strategy {
	case domain.Snowball:
		if c := a.Balance.Cmp(b.Balance); c != 0 {
			return c < 0
		}
		if c := a.AnnualRatePercent.Cmp(b.AnnualRatePercent); c != 0 {
			return c > 0
		}
	default:
		if c := a.AnnualRatePercent.Cmp(b.AnnualRatePercent); c != 0 {
			return c > 0
		}
		if c := a.Balance.Cmp(b.Balance); c != 0 {
			return c < 0
		}
	}
	return a.index < b.index
}

func aggregateBalance(debts []*workingDebt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Balance)
	}
	return total
}

// StrategyComparison runs the same debts under both strategies
type StrategyComparison struct {
	Avalanche     domain.PayoffPlan `json:"avalanche"`
	Snowball      domain.PayoffPlan `json:"snowball"`
	InterestSaved decimal.Decimal   `json:"interest_saved"` // snowball minus avalanche interest
	MonthsSaved   int               `json:"months_saved"`
}

// CompareStrategies schedules req under avalanche and snowball, ignoring req.Strategy
func CompareStrategies(req domain.PayoffRequest) StrategyComparison {
	av := req.Clone()
	av.Strategy = domain.Avalanche
	sn := req.Clone()
	sn.Strategy = domain.Snowball

	avalanche := SchedulePayoff(av)
	snowball := SchedulePayoff(sn)
	return StrategyComparison{
		Avalanche:     avalanche,
		Snowball:      snowball,
		InterestSaved: snowball.TotalInterest.Sub(avalanche.TotalInterest),
		MonthsSaved:   snowball.MonthsToPayoff - avalanche.MonthsToPayoff,
	}
}

// payoffStart defaults an unset start date to the first of the current month
func payoffStart(req domain.PayoffRequest) time.Time {
	if req.StartDate.IsZero() {
		return dateutil.BeginningOfMonth(nowFunc())
	}
	return req.StartDate
}
