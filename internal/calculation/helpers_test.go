package calculation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var fixtureStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// scenarioA is the 500000 at 12% over 5 years reference loan
func scenarioA(rules ...domain.Prepayment) domain.Loan {
	return domain.Loan{
		Principal:         d("500000"),
		AnnualRatePercent: d("12"),
		TenureYears:       5,
		Prepayments:       rules,
	}
}

// scenarioB is the two-debt reference plan
func scenarioB(strategy domain.Strategy) domain.PayoffRequest {
	return domain.PayoffRequest{
		Debts: []domain.Debt{
			{ID: "A", Name: "Card", Balance: d("50000"), AnnualRatePercent: d("18"), MinPayment: d("1500")},
			{ID: "B", Name: "Auto", Balance: d("120000"), AnnualRatePercent: d("11"), MinPayment: d("3200")},
		},
		ExtraPayment: d("5000"),
		Strategy:     strategy,
		StartDate:    fixtureStart,
	}
}

// distinctRates has three debts with different rates and a balance order that
// differs from the rate order, so the two strategies diverge
func distinctRates(strategy domain.Strategy) domain.PayoffRequest {
	return domain.PayoffRequest{
		Debts: []domain.Debt{
			{ID: "card", Balance: d("3000"), AnnualRatePercent: d("24"), MinPayment: d("100")},
			{ID: "car", Balance: d("1000"), AnnualRatePercent: d("6"), MinPayment: d("50")},
			{ID: "loan", Balance: d("8000"), AnnualRatePercent: d("12"), MinPayment: d("200")},
		},
		ExtraPayment: d("200"),
		Strategy:     strategy,
		StartDate:    fixtureStart,
	}
}

type logEntry struct {
	level string
	msg   string
}

// recordingLogger captures formatted log lines; safe for concurrent use
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, msg: fmt.Sprintf(format, args...)})
}

func (r *recordingLogger) Debugf(format string, args ...any) { r.add("debug", format, args...) }
func (r *recordingLogger) Infof(format string, args ...any)  { r.add("info", format, args...) }
func (r *recordingLogger) Warnf(format string, args ...any)  { r.add("warn", format, args...) }
func (r *recordingLogger) Errorf(format string, args ...any) { r.add("error", format, args...) }

func (r *recordingLogger) count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.level == level {
			n++
		}
	}
	return n
}
