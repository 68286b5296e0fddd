package output

import (
	"bytes"
	"encoding/csv"
)

// SummaryCSVFormatter writes one row of headline metrics per run in the report.
type SummaryCSVFormatter struct{}

func (c SummaryCSVFormatter) Name() string      { return "summary-csv" }
func (c SummaryCSVFormatter) Extension() string { return "csv" }

func (c SummaryCSVFormatter) Format(r *Report) ([]byte, error) {
	runs, err := r.runs()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Run", "Kind", "Payable", "TenureMonths", "TotalInterest", "TotalAmount", "InterestDelta", "TenureDelta", "TotalAmountDelta"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, run := range runs {
		m := run.Result.Metrics
		kind := string(run.Result.Params.Kind)
		if kind == "" && run.Result.Plan != nil {
			kind = "payoff"
		}
		row := []string{
			run.Label,
			kind,
			boolToString(m.Payable),
			intToString(m.TenureMonths),
			m.TotalInterest.StringFixed(2),
			m.TotalAmount.StringFixed(2),
		}
		if run.Delta != nil {
			row = append(row,
				run.Delta.InterestDelta.StringFixed(2),
				intToString(run.Delta.TenureDelta),
				run.Delta.TotalAmountDelta.StringFixed(2))
		} else {
			row = append(row, "", "", "")
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
