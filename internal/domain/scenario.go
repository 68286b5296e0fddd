package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ScenarioKind tags which engine a parameter set is meant for
type ScenarioKind string

const (
	LoanScenario   ScenarioKind = "loan"
	PayoffScenario ScenarioKind = "payoff"
)

// ScenarioParams is either a loan with prepayments or a payoff request.
// Exactly one of Loan and Payoff is set, matching Kind.
type ScenarioParams struct {
	Kind   ScenarioKind   `yaml:"kind" json:"kind"`
	Loan   *Loan          `yaml:"loan,omitempty" json:"loan,omitempty"`
	Payoff *PayoffRequest `yaml:"payoff,omitempty" json:"payoff,omitempty"`
}

// NewLoanParams wraps a loan as scenario params
func NewLoanParams(loan Loan) ScenarioParams {
	l := loan.Clone()
	return ScenarioParams{Kind: LoanScenario, Loan: &l}
}

// NewPayoffParams wraps a payoff request as scenario params
func NewPayoffParams(req PayoffRequest) ScenarioParams {
	r := req.Clone()
	return ScenarioParams{Kind: PayoffScenario, Payoff: &r}
}

// Validate checks that the variant is internally consistent
func (p ScenarioParams) Validate() error {
	switch p.Kind {
	case LoanScenario:
		if p.Loan == nil {
			return fmt.Errorf("kind %q requires a loan block", p.Kind)
		}
		if p.Payoff != nil {
			return fmt.Errorf("kind %q must not carry a payoff block", p.Kind)
		}
	case PayoffScenario:
		if p.Payoff == nil {
			return fmt.Errorf("kind %q requires a payoff block", p.Kind)
		}
		if p.Loan != nil {
			return fmt.Errorf("kind %q must not carry a loan block", p.Kind)
		}
	default:
		return fmt.Errorf("unknown scenario kind %q", p.Kind)
	}
	return nil
}

// Clone returns a deep copy that shares no memory with p
func (p ScenarioParams) Clone() ScenarioParams {
	out := ScenarioParams{Kind: p.Kind}
	if p.Loan != nil {
		l := p.Loan.Clone()
		out.Loan = &l
	}
	if p.Payoff != nil {
		r := p.Payoff.Clone()
		out.Payoff = &r
	}
	return out
}

// Scenario is a named snapshot of parameters taken at save time. It never
// changes after creation; use Working to obtain an editable copy.
type Scenario struct {
	ID        string         `yaml:"id" json:"id"`
	Name      string         `yaml:"name" json:"name"`
	CreatedAt time.Time      `yaml:"created_at" json:"created_at"`
	Params    ScenarioParams `yaml:"params" json:"params"`
}

// Working returns a fresh, independent copy of the snapshot's parameters
func (s Scenario) Working() ScenarioParams {
	return s.Params.Clone()
}

// Metrics are the figures the comparator diffs, common to both engines
type Metrics struct {
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TenureMonths  int             `json:"tenure_months"`
	Payable       bool            `json:"payable"`
}

// RunResult is one engine run together with the parameters that produced it
type RunResult struct {
	Params   ScenarioParams        `json:"params"`
	Schedule *AmortizationSchedule `json:"schedule,omitempty"`
	Plan     *PayoffPlan           `json:"plan,omitempty"`
	Metrics  Metrics               `json:"metrics"`
}

// Comparison holds two independent runs and their deltas (candidate minus baseline)
type Comparison struct {
	Baseline         RunResult       `json:"baseline"`
	Candidate        RunResult       `json:"candidate"`
	InterestDelta    decimal.Decimal `json:"interest_delta"`
	TenureDelta      int             `json:"tenure_delta"`
	TotalAmountDelta decimal.Decimal `json:"total_amount_delta"`
}
