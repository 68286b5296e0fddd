package main

import (
	"fmt"
	"time"

	"github.com/rpgo/payoff-planner/internal/calculation"
	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/rpgo/payoff-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Prints the full-precision figures the calculation tests pin, so they can be
// regenerated after an intentional change to the month ordering or rounding.
func main() {
	loan := domain.Loan{
		Principal:         decimal.NewFromInt(500000),
		AnnualRatePercent: decimal.NewFromInt(12),
		TenureYears:       5,
	}
	fmt.Println("Loan 500000 @ 12% for 5 years:")
	fmt.Printf("  installment: %s\n", calculation.CalculateInstallment(loan.Principal, loan.AnnualRatePercent, loan.TenureYears))
	printSchedule("no prepayments", loan)

	prepayments := map[string]domain.Prepayment{
		"one-time 100000 @ 12": {Kind: domain.OneTime, Amount: decimal.NewFromInt(100000), StartMonth: 12},
		"monthly 5000":         {Kind: domain.Monthly, Amount: decimal.NewFromInt(5000)},
		"yearly 50000 @ 12":    {Kind: domain.Yearly, Amount: decimal.NewFromInt(50000), StartMonth: 12},
	}
	var all []domain.Prepayment
	for _, label := range []string{"one-time 100000 @ 12", "monthly 5000", "yearly 50000 @ 12"} {
		l := loan.Clone()
		l.Prepayments = []domain.Prepayment{prepayments[label]}
		printSchedule(label, l)
		all = append(all, prepayments[label])
	}
	combined := loan.Clone()
	combined.Prepayments = all
	printSchedule("all three", combined)

	req := domain.PayoffRequest{
		Debts: []domain.Debt{
			{ID: "a", Balance: decimal.NewFromInt(50000), AnnualRatePercent: decimal.NewFromInt(18), MinPayment: decimal.NewFromInt(1500)},
			{ID: "b", Balance: decimal.NewFromInt(120000), AnnualRatePercent: decimal.NewFromInt(11), MinPayment: decimal.NewFromInt(3200)},
		},
		ExtraPayment: decimal.NewFromInt(5000),
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	fmt.Println("Debts a (50000 @ 18%) and b (120000 @ 11%), extra 5000:")
	for _, rollover := range []bool{false, true} {
		r := req.Clone()
		r.RolloverMinimums = rollover
		cmp := calculation.CompareStrategies(r)
		printPlan(fmt.Sprintf("avalanche rollover=%v", rollover), cmp.Avalanche)
		printPlan(fmt.Sprintf("snowball rollover=%v", rollover), cmp.Snowball)
	}
}

func printSchedule(label string, loan domain.Loan) {
	s := calculation.SimulateLoan(loan)
	fmt.Printf("  %-22s months=%d interest=%s prepaid=%s\n", label, s.ActualTenureMonths, s.TotalInterest, s.TotalPrepaid)
}

func printPlan(label string, p domain.PayoffPlan) {
	fmt.Printf("  %-26s months=%d interest=%s", label, p.MonthsToPayoff, p.TotalInterest)
	if p.ProjectedPayoffDate != nil {
		fmt.Printf(" date=%s", dateutil.FormatMonth(*p.ProjectedPayoffDate))
	}
	fmt.Printf(" paid off=%v\n", p.DebtPayoffMonths)
}
