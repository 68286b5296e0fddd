package calculation

import (
	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// SimulateLoan advances a loan month by month until it is repaid or the tenure
// runs out, applying prepayment rules as it goes.
//
// Within a month the order is fixed: prepayments reduce the balance first,
// interest accrues on what is left, then the installment's principal portion
// is applied. The installment is computed once and never re-amortized, so
// prepayments shorten the tenure instead of lowering the payment.
// SchedulePayoff charges interest before payments; the two orders differ on
// purpose and must not be unified.
func SimulateLoan(loan domain.Loan) domain.AmortizationSchedule {
	loan = loan.Clone()
	installment, scale := levelPayment(loan.Principal, loan.AnnualRatePercent, loan.TenureYears)
	if installment.IsZero() {
		return domain.AmortizationSchedule{
			Installment:   decimal.Zero,
			TotalInterest: decimal.Zero,
			TotalAmount:   decimal.Zero,
			TotalPrepaid:  decimal.Zero,
		}
	}

	tenure := loan.TenureMonths()
	rate := loan.MonthlyRate()
	balance := loan.Principal
	cumulative := decimal.Zero
	prepaid := decimal.Zero
	entries := make([]domain.AmortizationEntry, 0, tenure)

	for month := 1; month <= tenure; month++ {
		prepayment := prepaymentDue(loan.Prepayments, month, balance)
		balance = balance.Sub(prepayment)
		prepaid = prepaid.Add(prepayment)

		interest := balance.Mul(rate).Round(scale)
		cumulative = cumulative.Add(interest)

		principal := installment.Sub(interest)
		if principal.IsNegative() {
			principal = decimal.Zero
		}
		if principal.GreaterThan(balance) || balance.Sub(principal).LessThan(SettlementTolerance) {
			principal = balance
		}
		balance = balance.Sub(principal)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		entries = append(entries, domain.AmortizationEntry{
			Month:              month,
			PrincipalPaid:      principal.Add(prepayment),
			InterestPaid:       interest,
			EndingBalance:      balance,
			CumulativeInterest: cumulative,
			Prepayment:         prepayment,
		})

		if balance.IsZero() {
			break
		}
	}

	return domain.AmortizationSchedule{
		Installment:           installment,
		Entries:               entries,
		TotalInterest:         cumulative,
		TotalAmount:           loan.Principal.Add(cumulative),
		TotalPrepaid:          prepaid,
		ActualTenureMonths:    len(entries),
		ScheduledTenureMonths: tenure,
	}
}

// prepaymentDue sums the rules firing this month. Each rule is capped at the
// balance still outstanding after the rules before it, so the total can never
// exceed the balance.
func prepaymentDue(rules []domain.Prepayment, month int, balance decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, rule := range rules {
		if !rule.Amount.IsPositive() || !rule.DueIn(month) {
			continue
		}
		remaining := balance.Sub(total)
		if !remaining.IsPositive() {
			break
		}
		total = total.Add(decimal.Min(rule.Amount, remaining))
	}
	return total
}
