package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/rpgo/payoff-planner/pkg/dateutil"
)

// ConsoleFormatter renders summaries and per-month tables for a terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	runs, err := r.runs()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	title := r.Title
	if title == "" {
		title = defaultTitle(r)
	}
	fmt.Fprintln(&buf, strings.ToUpper(title))
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))

	for _, run := range runs {
		fmt.Fprintln(&buf)
		writeRunSummary(&buf, run)
		if !r.SummaryOnly {
			writeRunTable(&buf, run.Result)
		}
	}

	if rec := Recommend(r); rec.Label != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (%s; saves %s and %d months)\n",
			rec.Label, rec.Reason, FormatCurrency(rec.InterestSaved), rec.MonthsSaved)
	}
	return buf.Bytes(), nil
}

func defaultTitle(r *Report) string {
	switch {
	case r.Comparison != nil:
		return "Scenario Comparison"
	case r.Strategies != nil:
		return "Avalanche vs Snowball"
	case len(r.Ranking) > 0:
		return "Saved Scenario Ranking"
	case r.Run != nil && r.Run.Plan != nil:
		return "Debt Payoff Plan"
	}
	return "Loan Amortization"
}

func writeRunSummary(buf *bytes.Buffer, run labeledRun) {
	res := run.Result
	fmt.Fprintf(buf, "[%s]\n", run.Label)
	switch {
	case res.Schedule != nil:
		s := res.Schedule
		if !s.Computable() {
			fmt.Fprintln(buf, "  Installment not computable; no schedule produced")
			break
		}
		fmt.Fprintf(buf, "  Installment:      %s\n", FormatCurrency(s.Installment))
		fmt.Fprintf(buf, "  Tenure:           %d of %d months (%s)\n", s.ActualTenureMonths, s.ScheduledTenureMonths, FormatMonths(s.ActualTenureMonths))
		if s.MonthsSaved() > 0 {
			fmt.Fprintf(buf, "  Months saved:     %d\n", s.MonthsSaved())
		}
		if s.TotalPrepaid.IsPositive() {
			fmt.Fprintf(buf, "  Total prepaid:    %s\n", FormatCurrency(s.TotalPrepaid))
		}
		fmt.Fprintf(buf, "  Total interest:   %s\n", FormatCurrency(s.TotalInterest))
		fmt.Fprintf(buf, "  Total amount:     %s\n", FormatCurrency(s.TotalAmount))
	case res.Plan != nil:
		p := res.Plan
		fmt.Fprintf(buf, "  Strategy:         %s\n", p.Strategy)
		fmt.Fprintf(buf, "  Total debt:       %s\n", FormatCurrency(p.TotalDebt))
		fmt.Fprintf(buf, "  Monthly budget:   %s\n", FormatCurrency(p.TotalMonthlyCommitted))
		if p.IsPaidOff() {
			fmt.Fprintf(buf, "  Debt-free in:     %d months (%s)\n", p.MonthsToPayoff, FormatMonths(p.MonthsToPayoff))
			if p.ProjectedPayoffDate != nil {
				fmt.Fprintf(buf, "  Payoff date:      %s\n", dateutil.FormatMonth(*p.ProjectedPayoffDate))
			}
		} else {
			fmt.Fprintf(buf, "  NOT PAYABLE within %d months under this plan\n", p.MonthsToPayoff)
		}
		fmt.Fprintf(buf, "  Total interest:   %s\n", FormatCurrency(p.TotalInterest))
		writeDebtPayoffMonths(buf, p)
	}
	if run.Delta != nil {
		fmt.Fprintf(buf, "  vs baseline:      interest %s, tenure %+d months, total %s\n",
			FormatSignedCurrency(run.Delta.InterestDelta), run.Delta.TenureDelta,
			FormatSignedCurrency(run.Delta.TotalAmountDelta))
	}
}

func writeDebtPayoffMonths(buf *bytes.Buffer, p *domain.PayoffPlan) {
	if len(p.DebtPayoffMonths) == 0 {
		return
	}
	keys := make([]string, 0, len(p.DebtPayoffMonths))
	for k := range p.DebtPayoffMonths {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, mj := p.DebtPayoffMonths[keys[i]], p.DebtPayoffMonths[keys[j]]
		if mi != mj {
			return mi < mj
		}
		return keys[i] < keys[j]
	})
	fmt.Fprintln(buf, "  Paid off:")
	for _, k := range keys {
		fmt.Fprintf(buf, "    %-16s month %d\n", k, p.DebtPayoffMonths[k])
	}
}

func writeRunTable(buf *bytes.Buffer, res domain.RunResult) {
	switch {
	case res.Schedule != nil && len(res.Schedule.Entries) > 0:
		fmt.Fprintf(buf, "  %5s %16s %14s %14s %18s\n", "Month", "Principal", "Interest", "Prepayment", "Balance")
		for _, e := range res.Schedule.Entries {
			fmt.Fprintf(buf, "  %5d %16s %14s %14s %18s\n", e.Month,
				FormatCurrency(e.PrincipalPaid), FormatCurrency(e.InterestPaid),
				FormatCurrency(e.Prepayment), FormatCurrency(e.EndingBalance))
		}
	case res.Plan != nil && len(res.Plan.Timeline) > 0:
		fmt.Fprintf(buf, "  %5s %-9s %14s %14s %14s %18s\n", "Month", "Date", "Paid", "Interest", "Principal", "Balance")
		for _, e := range res.Plan.Timeline {
			fmt.Fprintf(buf, "  %5d %-9s %14s %14s %14s %18s\n", e.Month, dateutil.FormatMonth(e.CalendarDate),
				FormatCurrency(e.MonthlyPaid), FormatCurrency(e.MonthlyInterestPaid),
				FormatCurrency(e.MonthlyPrincipalPaid), FormatCurrency(e.AggregateBalance))
		}
	}
}
