package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPlan marks a plan file that parsed but failed validation
var ErrInvalidPlan = errors.New("invalid plan")

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads one scenario plan from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (domain.ScenarioParams, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.ScenarioParams{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	params, err := ip.Parse(data)
	if err != nil {
		return domain.ScenarioParams{}, fmt.Errorf("%s: %w", filename, err)
	}
	return params, nil
}

// Parse decodes and validates a plan document
func (ip *InputParser) Parse(data []byte) (domain.ScenarioParams, error) {
	var params domain.ScenarioParams
	if err := yaml.Unmarshal(data, &params); err != nil {
		return domain.ScenarioParams{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	// kind may be omitted when only one block is present
	if params.Kind == "" {
		switch {
		case params.Loan != nil && params.Payoff == nil:
			params.Kind = domain.LoanScenario
		case params.Payoff != nil && params.Loan == nil:
			params.Kind = domain.PayoffScenario
		}
	}
	if err := ip.ValidatePlan(params); err != nil {
		return domain.ScenarioParams{}, err
	}
	return params, nil
}

// ValidatePlan validates a parsed plan. Every failure wraps ErrInvalidPlan.
func (ip *InputParser) ValidatePlan(params domain.ScenarioParams) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	var err error
	switch params.Kind {
	case domain.LoanScenario:
		err = ip.validateLoan(params.Loan)
	case domain.PayoffScenario:
		err = ip.validatePayoff(params.Payoff)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return nil
}

// validateLoan rejects inputs the simulator would otherwise silently turn
// into an empty schedule
func (ip *InputParser) validateLoan(loan *domain.Loan) error {
	if loan.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("loan principal must be positive")
	}
	if loan.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("loan annual rate cannot be negative")
	}
	if loan.TenureYears <= 0 {
		return fmt.Errorf("loan tenure must be at least one year")
	}
	if loan.TenureYears > 100 {
		return fmt.Errorf("loan tenure of %d years exceeds 100", loan.TenureYears)
	}
	for i, p := range loan.Prepayments {
		if err := ip.validatePrepayment(p, loan.TenureMonths()); err != nil {
			return fmt.Errorf("prepayment %d: %w", i+1, err)
		}
	}
	return nil
}

func (ip *InputParser) validatePrepayment(p domain.Prepayment, tenureMonths int) error {
	if _, err := domain.ParsePrepaymentKind(string(p.Kind)); err != nil {
		return err
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	if p.StartMonth < 0 {
		return fmt.Errorf("start month cannot be negative")
	}
	if (p.Kind == domain.OneTime || p.Kind == domain.Yearly) && p.StartMonth == 0 {
		return fmt.Errorf("%s prepayment needs a start month", p.Kind)
	}
	if p.StartMonth > tenureMonths {
		return fmt.Errorf("start month %d is past the %d month tenure", p.StartMonth, tenureMonths)
	}
	return nil
}

func (ip *InputParser) validatePayoff(req *domain.PayoffRequest) error {
	if len(req.Debts) == 0 {
		return fmt.Errorf("no debts provided")
	}
	if req.ExtraPayment.IsNegative() {
		return fmt.Errorf("extra payment cannot be negative")
	}
	if req.Strategy != "" {
		if _, err := domain.ParseStrategy(string(req.Strategy)); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(req.Debts))
	for i, d := range req.Debts {
		label := d.Key()
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if err := ip.validateDebt(d); err != nil {
			return fmt.Errorf("debt %s: %w", label, err)
		}
		if d.Key() != "" {
			if seen[d.Key()] {
				return fmt.Errorf("duplicate debt %q", d.Key())
			}
			seen[d.Key()] = true
		}
	}
	return nil
}

func (ip *InputParser) validateDebt(d domain.Debt) error {
	if strings.TrimSpace(d.Key()) == "" {
		return fmt.Errorf("id or name is required")
	}
	if d.Balance.IsNegative() {
		return fmt.Errorf("balance cannot be negative")
	}
	if d.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("annual rate cannot be negative")
	}
	if d.MinPayment.IsNegative() {
		return fmt.Errorf("minimum payment cannot be negative")
	}
	return nil
}

// CreateExampleLoanPlan returns the sample loan written by `planner init`
func (ip *InputParser) CreateExampleLoanPlan() domain.ScenarioParams {
	return domain.NewLoanParams(domain.Loan{
		Principal:         decimal.NewFromInt(500000),
		AnnualRatePercent: decimal.NewFromInt(12),
		TenureYears:       5,
		Prepayments: []domain.Prepayment{
			{Kind: domain.OneTime, Amount: decimal.NewFromInt(100000), StartMonth: 12},
			{Kind: domain.Monthly, Amount: decimal.NewFromInt(5000), StartMonth: 1},
		},
	})
}

// CreateExamplePayoffPlan returns the sample debt plan written by `planner init`
func (ip *InputParser) CreateExamplePayoffPlan() domain.ScenarioParams {
	return domain.NewPayoffParams(domain.PayoffRequest{
		Debts: []domain.Debt{
			{ID: "card", Name: "Credit card", Balance: decimal.NewFromInt(3000), AnnualRatePercent: decimal.NewFromInt(24), MinPayment: decimal.NewFromInt(90)},
			{ID: "car", Name: "Car loan", Balance: decimal.NewFromInt(8000), AnnualRatePercent: decimal.NewFromInt(7), MinPayment: decimal.NewFromInt(250)},
			{ID: "student", Name: "Student loan", Balance: decimal.NewFromInt(12000), AnnualRatePercent: decimal.NewFromInt(5), MinPayment: decimal.NewFromInt(150)},
		},
		ExtraPayment: decimal.NewFromInt(300),
		Strategy:     domain.Avalanche,
	})
}

// MarshalPlan encodes params in the plan file layout LoadFromFile reads
func MarshalPlan(params domain.ScenarioParams) ([]byte, error) {
	data, err := yaml.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	return data, nil
}
