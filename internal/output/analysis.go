package output

import (
	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation names the cheaper of the runs in a report.
type Recommendation struct {
	Label         string // empty when the report holds a single run
	InterestSaved decimal.Decimal
	MonthsSaved   int
	Reason        string
}

// Recommend picks the best run in a report. A payable run always beats one that
// is not; among payable runs lower total interest wins, then shorter tenure.
// Ties keep the earlier run.
func Recommend(r *Report) Recommendation {
	runs, err := r.runs()
	if err != nil || len(runs) < 2 {
		return Recommendation{}
	}
	bi := 0
	for i := 1; i < len(runs); i++ {
		if better(runs[i].Result.Metrics, runs[bi].Result.Metrics) {
			bi = i
		}
	}
	ri := -1
	for i := range runs {
		if i == bi {
			continue
		}
		if ri < 0 || better(runs[i].Result.Metrics, runs[ri].Result.Metrics) {
			ri = i
		}
	}
	best, runnerUp := runs[bi], runs[ri]

	rec := Recommendation{
		Label:         best.Label,
		InterestSaved: runnerUp.Result.Metrics.TotalInterest.Sub(best.Result.Metrics.TotalInterest),
		MonthsSaved:   runnerUp.Result.Metrics.TenureMonths - best.Result.Metrics.TenureMonths,
	}
	switch {
	case !runnerUp.Result.Metrics.Payable && best.Result.Metrics.Payable:
		rec.Reason = runnerUp.Label + " is not payable under its plan"
	case rec.InterestSaved.IsPositive():
		rec.Reason = "lowest total interest"
	case rec.MonthsSaved > 0:
		rec.Reason = "same interest, shorter tenure"
	default:
		rec.Reason = "no material difference"
	}
	return rec
}

// better reports whether a strictly beats b
func better(a, b domain.Metrics) bool {
	if a.Payable != b.Payable {
		return a.Payable
	}
	if !a.TotalInterest.Equal(b.TotalInterest) {
		return a.TotalInterest.LessThan(b.TotalInterest)
	}
	return a.TenureMonths < b.TenureMonths
}
