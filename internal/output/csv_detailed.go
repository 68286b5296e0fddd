package output

import (
	"bytes"
	"encoding/csv"
	"sort"
)

// LedgerCSVFormatter exports the per-month loan ledger or payoff timeline of
// every run in the report, one row per run and month.
type LedgerCSVFormatter struct{}

func (c LedgerCSVFormatter) Name() string      { return "csv" }
func (c LedgerCSVFormatter) Extension() string { return "csv" }

func (c LedgerCSVFormatter) Format(r *Report) ([]byte, error) {
	runs, err := r.runs()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if runs[0].Result.Schedule != nil {
		err = writeLedgerRows(w, runs)
	} else {
		err = writeTimelineRows(w, runs)
	}
	if err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func writeLedgerRows(w *csv.Writer, runs []labeledRun) error {
	header := []string{"Run", "Month", "PrincipalPaid", "InterestPaid", "Prepayment", "EndingBalance", "CumulativeInterest"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, run := range runs {
		if run.Result.Schedule == nil {
			continue
		}
		for _, e := range run.Result.Schedule.Entries {
			row := []string{
				run.Label,
				intToString(e.Month),
				e.PrincipalPaid.StringFixed(2),
				e.InterestPaid.StringFixed(2),
				e.Prepayment.StringFixed(2),
				e.EndingBalance.StringFixed(2),
				e.CumulativeInterest.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTimelineRows(w *csv.Writer, runs []labeledRun) error {
	keys := debtKeys(runs)
	header := []string{"Run", "Month", "Date", "MonthlyPaid", "InterestPaid", "PrincipalPaid", "AggregateBalance"}
	header = append(header, keys...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, run := range runs {
		if run.Result.Plan == nil {
			continue
		}
		for _, e := range run.Result.Plan.Timeline {
			row := []string{
				run.Label,
				intToString(e.Month),
				e.CalendarDate.Format("2006-01-02"),
				e.MonthlyPaid.StringFixed(2),
				e.MonthlyInterestPaid.StringFixed(2),
				e.MonthlyPrincipalPaid.StringFixed(2),
				e.AggregateBalance.StringFixed(2),
			}
			for _, k := range keys {
				if b, ok := e.Balances[k]; ok {
					row = append(row, b.StringFixed(2))
				} else {
					row = append(row, "")
				}
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// debtKeys collects every debt key across the runs' plans, sorted
func debtKeys(runs []labeledRun) []string {
	seen := map[string]bool{}
	var keys []string
	for _, run := range runs {
		if run.Result.Plan == nil {
			continue
		}
		for k := range run.Result.Plan.DebtPayoffMonths {
			addKey(seen, &keys, k)
		}
		for _, e := range run.Result.Plan.Timeline {
			for k := range e.Balances {
				addKey(seen, &keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func addKey(seen map[string]bool, keys *[]string, k string) {
	if !seen[k] {
		seen[k] = true
		*keys = append(*keys, k)
	}
}

