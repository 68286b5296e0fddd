package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	decimalTwelve  = decimal.NewFromInt(12)
	decimalHundred = decimal.NewFromInt(100)
)

// MonthlyRateFromAnnualPercent converts an annual percentage rate (e.g. 12 for 12%)
// into the per-month fraction used for monthly compounding.
func MonthlyRateFromAnnualPercent(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(decimalTwelve).Div(decimalHundred)
}

// Loan is a single reducing-balance loan with optional prepayment rules
type Loan struct {
	Principal         decimal.Decimal `yaml:"principal" json:"principal"`
	AnnualRatePercent decimal.Decimal `yaml:"annual_rate_percent" json:"annual_rate_percent"`
	TenureYears       int             `yaml:"tenure_years" json:"tenure_years"`
	Prepayments       []Prepayment    `yaml:"prepayments,omitempty" json:"prepayments,omitempty"`
}

// MonthlyRate returns the loan's monthly interest rate as a fraction
func (l Loan) MonthlyRate() decimal.Decimal {
	return MonthlyRateFromAnnualPercent(l.AnnualRatePercent)
}

// TenureMonths returns the scheduled number of monthly installments
func (l Loan) TenureMonths() int {
	return l.TenureYears * 12
}

// Clone returns a deep copy of the loan. Decimals are immutable values, so only
// the prepayment slice needs copying.
func (l Loan) Clone() Loan {
	out := l
	if l.Prepayments != nil {
		out.Prepayments = append([]Prepayment(nil), l.Prepayments...)
	}
	return out
}

// PrepaymentKind identifies how often a prepayment rule fires
type PrepaymentKind string

const (
	OneTime PrepaymentKind = "one_time"
	Monthly PrepaymentKind = "monthly"
	Yearly  PrepaymentKind = "yearly"
)

// ParsePrepaymentKind accepts the canonical names plus a few common spellings.
func ParsePrepaymentKind(s string) (PrepaymentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one_time", "onetime", "one-time", "once":
		return OneTime, nil
	case "monthly":
		return Monthly, nil
	case "yearly", "annual", "annually":
		return Yearly, nil
	}
	return "", fmt.Errorf("unknown prepayment kind %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML and JSON decoding
func (k *PrepaymentKind) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = ""
		return nil
	}
	parsed, err := ParsePrepaymentKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (k PrepaymentKind) MarshalText() ([]byte, error) {
	return []byte(k), nil
}

// Prepayment is an extra payment rule applied on top of the scheduled installment
type Prepayment struct {
	Kind       PrepaymentKind  `yaml:"kind" json:"kind"`
	Amount     decimal.Decimal `yaml:"amount" json:"amount"`
	StartMonth int             `yaml:"start_month,omitempty" json:"start_month,omitempty"` // 1-based
}

// EffectiveStartMonth returns the 1-based start month, defaulting monthly rules to month 1
func (p Prepayment) EffectiveStartMonth() int {
	if p.Kind == Monthly && p.StartMonth <= 0 {
		return 1
	}
	return p.StartMonth
}

// DueIn reports whether the rule contributes its amount in the given 1-based month
func (p Prepayment) DueIn(month int) bool {
	start := p.EffectiveStartMonth()
	if start <= 0 || month < start {
		return false
	}
	switch p.Kind {
	case OneTime:
		return month == start
	case Monthly:
		return true
	case Yearly:
		return month%12 == start%12
	}
	return false
}

// AmortizationEntry is one month of a single-loan ledger
type AmortizationEntry struct {
	Month              int             `json:"month"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"` // installment principal plus prepayment
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	EndingBalance      decimal.Decimal `json:"ending_balance"`
	CumulativeInterest decimal.Decimal `json:"cumulative_interest"`
	Prepayment         decimal.Decimal `json:"prepayment"`
}

// AmortizationSchedule is the month-by-month ledger of a loan plus its aggregates
type AmortizationSchedule struct {
	Installment           decimal.Decimal     `json:"installment"`
	Entries               []AmortizationEntry `json:"entries"`
	TotalInterest         decimal.Decimal     `json:"total_interest"`
	TotalAmount           decimal.Decimal     `json:"total_amount"`
	TotalPrepaid          decimal.Decimal     `json:"total_prepaid"`
	ActualTenureMonths    int                 `json:"actual_tenure_months"`
	ScheduledTenureMonths int                 `json:"scheduled_tenure_months"`
}

// Computable is false when the installment could not be computed and no ledger was produced
func (s *AmortizationSchedule) Computable() bool {
	return !s.Installment.IsZero()
}

// MonthsSaved returns how many scheduled months prepayments removed
func (s *AmortizationSchedule) MonthsSaved() int {
	if !s.Computable() {
		return 0
	}
	return s.ScheduledTenureMonths - s.ActualTenureMonths
}

// FinalEntry returns the last ledger entry, if any
func (s *AmortizationSchedule) FinalEntry() (AmortizationEntry, bool) {
	if len(s.Entries) == 0 {
		return AmortizationEntry{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}
