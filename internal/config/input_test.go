package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_LoanPlan(t *testing.T) {
	params, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "loan_prepay.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.LoanScenario, params.Kind)
	require.NotNil(t, params.Loan)
	assert.Nil(t, params.Payoff)
	assert.True(t, params.Loan.Principal.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, 5, params.Loan.TenureYears)
	require.Len(t, params.Loan.Prepayments, 3)
	assert.Equal(t, domain.OneTime, params.Loan.Prepayments[0].Kind)
	assert.Equal(t, domain.Monthly, params.Loan.Prepayments[1].Kind)
	assert.Equal(t, 0, params.Loan.Prepayments[1].StartMonth)
	assert.Equal(t, domain.Yearly, params.Loan.Prepayments[2].Kind)
}

func TestLoadFromFile_PayoffPlan(t *testing.T) {
	params, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "payoff_two_debts.yaml"))
	require.NoError(t, err)

	require.NotNil(t, params.Payoff)
	assert.Equal(t, domain.Avalanche, params.Payoff.Strategy)
	assert.True(t, params.Payoff.StartDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, params.Payoff.Debts, 2)
	assert.Equal(t, "b", params.Payoff.Debts[1].ID)
	assert.True(t, params.Payoff.TotalMonthlyCommitted().Equal(decimal.NewFromInt(9700)))
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	_, err := NewInputParser().LoadFromFile("nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loan: [principal"), 0o644))

	_, err := NewInputParser().LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_InfersKind(t *testing.T) {
	params, err := NewInputParser().Parse([]byte("loan:\n  principal: 1000\n  annual_rate_percent: 0\n  tenure_years: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.LoanScenario, params.Kind)

	_, err = NewInputParser().Parse([]byte("kind: loan\n"))
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestParse_YearlyPrepaymentNeedsStartMonth(t *testing.T) {
	plan := "loan:\n  principal: 500000\n  annual_rate_percent: 12\n  tenure_years: 5\n" +
		"  prepayments:\n    - kind: yearly\n      amount: 50000\n"
	_, err := NewInputParser().Parse([]byte(plan))
	require.ErrorIs(t, err, ErrInvalidPlan)
	assert.Contains(t, err.Error(), "yearly prepayment needs a start month")

	params, err := NewInputParser().Parse([]byte(plan + "      start_month: 12\n"))
	require.NoError(t, err)
	assert.Equal(t, 12, params.Loan.Prepayments[0].StartMonth)
}

func TestParse_UnknownEnums(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("payoff:\n  strategy: tsunami\n"))
	require.Error(t, err)

	_, err = NewInputParser().Parse([]byte("loan:\n  principal: 1\n  tenure_years: 1\n  prepayments:\n    - kind: fortnightly\n      amount: 1\n"))
	require.Error(t, err)
}

func TestValidatePlan_Loan(t *testing.T) {
	parser := NewInputParser()
	valid := func() domain.Loan {
		return domain.Loan{
			Principal:         decimal.NewFromInt(500000),
			AnnualRatePercent: decimal.NewFromInt(12),
			TenureYears:       5,
		}
	}

	assert.NoError(t, parser.ValidatePlan(domain.NewLoanParams(valid())))

	cases := map[string]func(*domain.Loan){
		"zero principal":    func(l *domain.Loan) { l.Principal = decimal.Zero },
		"negative rate":     func(l *domain.Loan) { l.AnnualRatePercent = decimal.NewFromInt(-1) },
		"zero tenure":       func(l *domain.Loan) { l.TenureYears = 0 },
		"absurd tenure":     func(l *domain.Loan) { l.TenureYears = 101 },
		"one-time no month": func(l *domain.Loan) { l.Prepayments = []domain.Prepayment{{Kind: domain.OneTime, Amount: decimal.NewFromInt(1)}} },
		"yearly no month":   func(l *domain.Loan) { l.Prepayments = []domain.Prepayment{{Kind: domain.Yearly, Amount: decimal.NewFromInt(50000)}} },
		"zero prepayment":   func(l *domain.Loan) { l.Prepayments = []domain.Prepayment{{Kind: domain.Monthly}} },
		"past tenure": func(l *domain.Loan) {
			l.Prepayments = []domain.Prepayment{{Kind: domain.Yearly, Amount: decimal.NewFromInt(1), StartMonth: 61}}
		},
		"negative start": func(l *domain.Loan) {
			l.Prepayments = []domain.Prepayment{{Kind: domain.Monthly, Amount: decimal.NewFromInt(1), StartMonth: -2}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			loan := valid()
			mutate(&loan)
			err := parser.ValidatePlan(domain.NewLoanParams(loan))
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestValidatePlan_Payoff(t *testing.T) {
	parser := NewInputParser()
	valid := func() domain.PayoffRequest {
		return domain.PayoffRequest{
			Debts: []domain.Debt{
				{ID: "a", Balance: decimal.NewFromInt(1000), AnnualRatePercent: decimal.NewFromInt(10), MinPayment: decimal.NewFromInt(50)},
				{Name: "Store card", Balance: decimal.Zero, AnnualRatePercent: decimal.NewFromInt(25), MinPayment: decimal.NewFromInt(25)},
			},
			ExtraPayment: decimal.NewFromInt(100),
		}
	}

	assert.NoError(t, parser.ValidatePlan(domain.NewPayoffParams(valid())), "zero balances and empty strategy are allowed")

	cases := map[string]func(*domain.PayoffRequest){
		"no debts":         func(r *domain.PayoffRequest) { r.Debts = nil },
		"negative extra":   func(r *domain.PayoffRequest) { r.ExtraPayment = decimal.NewFromInt(-1) },
		"anonymous debt":   func(r *domain.PayoffRequest) { r.Debts[0].ID = "" },
		"negative balance": func(r *domain.PayoffRequest) { r.Debts[0].Balance = decimal.NewFromInt(-5) },
		"negative rate":    func(r *domain.PayoffRequest) { r.Debts[0].AnnualRatePercent = decimal.NewFromInt(-5) },
		"negative minimum": func(r *domain.PayoffRequest) { r.Debts[1].MinPayment = decimal.NewFromInt(-5) },
		"duplicate key":    func(r *domain.PayoffRequest) { r.Debts[1].ID = "a" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid()
			mutate(&req)
			err := parser.ValidatePlan(domain.NewPayoffParams(req))
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestValidatePlan_MismatchedKind(t *testing.T) {
	loan := domain.Loan{Principal: decimal.NewFromInt(1), TenureYears: 1}
	err := NewInputParser().ValidatePlan(domain.ScenarioParams{Kind: domain.PayoffScenario, Loan: &loan})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestExamplePlans_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	for _, params := range []domain.ScenarioParams{parser.CreateExampleLoanPlan(), parser.CreateExamplePayoffPlan()} {
		require.NoError(t, parser.ValidatePlan(params))

		data, err := MarshalPlan(params)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "plan.yaml")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		loaded, err := parser.LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, params.Kind, loaded.Kind)
		if params.Loan != nil {
			assert.True(t, loaded.Loan.Principal.Equal(params.Loan.Principal))
			assert.Len(t, loaded.Loan.Prepayments, len(params.Loan.Prepayments))
		} else {
			assert.True(t, loaded.Payoff.TotalDebt().Equal(params.Payoff.TotalDebt()))
			assert.Equal(t, params.Payoff.Strategy, loaded.Payoff.Strategy)
		}
	}
}
