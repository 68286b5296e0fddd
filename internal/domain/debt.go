package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Debt is one obligation in a multi-debt payoff plan
type Debt struct {
	ID                string          `yaml:"id" json:"id"`
	Name              string          `yaml:"name" json:"name"`
	Balance           decimal.Decimal `yaml:"balance" json:"balance"`
	AnnualRatePercent decimal.Decimal `yaml:"annual_rate_percent" json:"annual_rate_percent"`
	MinPayment        decimal.Decimal `yaml:"min_payment" json:"min_payment"`
}

// MonthlyRate returns the debt's monthly interest rate as a fraction
func (d Debt) MonthlyRate() decimal.Decimal {
	return MonthlyRateFromAnnualPercent(d.AnnualRatePercent)
}

// Key identifies the debt in timelines; falls back to the name when no ID was given
func (d Debt) Key() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

// Strategy selects which debt receives surplus funds first
type Strategy string

const (
	Avalanche Strategy = "avalanche" // highest rate first
	Snowball  Strategy = "snowball"  // smallest balance first
)

// ParseStrategy parses a strategy name, case-insensitively
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case Avalanche:
		return Avalanche, nil
	case Snowball:
		return Snowball, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want avalanche or snowball)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value decodes to
// the zero Strategy, which the scheduler treats as Avalanche.
func (s *Strategy) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = ""
		return nil
	}
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// PayoffRequest is the input of a multi-debt payoff run
type PayoffRequest struct {
	Debts        []Debt          `yaml:"debts" json:"debts"`
	ExtraPayment decimal.Decimal `yaml:"extra_payment" json:"extra_payment"`
	Strategy     Strategy        `yaml:"strategy" json:"strategy"`
	StartDate    time.Time       `yaml:"start_date,omitempty" json:"start_date,omitempty"`

	// RolloverMinimums keeps the minimum of a paid-off debt in the shared budget.
	RolloverMinimums bool `yaml:"rollover_minimums,omitempty" json:"rollover_minimums,omitempty"`
}

// Clone returns a deep copy of the request
func (r PayoffRequest) Clone() PayoffRequest {
	out := r
	if r.Debts != nil {
		out.Debts = append([]Debt(nil), r.Debts...)
	}
	return out
}

// TotalDebt sums the starting balances
func (r PayoffRequest) TotalDebt() decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Debts {
		total = total.Add(d.Balance)
	}
	return total
}

// TotalMonthlyCommitted is the up-front monthly commitment: the extra payment
// plus every debt's minimum. See PayoffPlan.TotalMonthlyCommitted.
func (r PayoffRequest) TotalMonthlyCommitted() decimal.Decimal {
	total := r.ExtraPayment
	for _, d := range r.Debts {
		total = total.Add(d.MinPayment)
	}
	return total
}

// PayoffOutcome tags how a payoff run terminated
type PayoffOutcome string

const (
	PaidOff    PayoffOutcome = "paid_off"
	NotPayable PayoffOutcome = "not_payable" // safety cap reached with balance outstanding
)

// PayoffTimelineEntry is one simulated month of a multi-debt run
type PayoffTimelineEntry struct {
	Month                int                        `json:"month"`
	CalendarDate         time.Time                  `json:"calendar_date"`
	AggregateBalance     decimal.Decimal            `json:"aggregate_balance"`
	MonthlyInterestPaid  decimal.Decimal            `json:"monthly_interest_paid"`
	MonthlyPrincipalPaid decimal.Decimal            `json:"monthly_principal_paid"`
	MonthlyPaid          decimal.Decimal            `json:"monthly_paid"`
	Balances             map[string]decimal.Decimal `json:"balances"` // end-of-month, keyed like PayoffPlan.DebtPayoffMonths
}

// PayoffPlan is the result of a multi-debt run
type PayoffPlan struct {
	Strategy  Strategy              `json:"strategy"`
	Outcome   PayoffOutcome         `json:"outcome"`
	Timeline  []PayoffTimelineEntry `json:"timeline"`
	TotalDebt decimal.Decimal       `json:"total_debt"`
	// TotalMonthlyCommitted is the up-front commitment: the extra payment plus
	// every debt's minimum. It is not what each month pays; once a debt clears,
	// its minimum leaves the budget unless the request set RolloverMinimums.
	TotalMonthlyCommitted decimal.Decimal `json:"total_monthly_committed"`
	TotalInterest         decimal.Decimal `json:"total_interest"`
	MonthsToPayoff        int             `json:"months_to_payoff"`
	ProjectedPayoffDate   *time.Time      `json:"projected_payoff_date,omitempty"`
	// DebtPayoffMonths is keyed by Debt.Key(). A debt with an empty or repeated
	// key is named by its 1-based input position instead ("debt-2", "a#2").
	DebtPayoffMonths map[string]int `json:"debt_payoff_months"`
}

// IsPaidOff reports whether every debt reached zero before the safety cap
func (p *PayoffPlan) IsPaidOff() bool {
	return p.Outcome == PaidOff
}

// TotalPaid is the starting debt plus all interest charged over the run
func (p *PayoffPlan) TotalPaid() decimal.Decimal {
	return p.TotalDebt.Add(p.TotalInterest)
}
