package calculation

import (
	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// MaxTenureYears bounds the power term of the installment formula. Longer
	// tenures are reported as not computable.
	MaxTenureYears = 100

	// InterestScale is the fewest decimal places monthly interest is kept at.
	// Long, high-rate loans keep more; see amortizationScale.
	InterestScale = 12
)

// SettlementTolerance is the residual balance below which a loan is treated as settled.
var SettlementTolerance = decimal.New(1, -6)

var decimalOne = decimal.NewFromInt(1)

// CalculateInstallment returns the fixed monthly payment that amortizes principal
// over tenureYears*12 months at annualRatePercent/12/100 per month.
//
// Invalid inputs (principal <= 0, rate < 0, tenure <= 0) and degenerate results
// yield decimal.Zero, meaning "not computable".
func CalculateInstallment(principal, annualRatePercent decimal.Decimal, tenureYears int) decimal.Decimal {
	payment, _ := levelPayment(principal, annualRatePercent, tenureYears)
	return payment
}

// levelPayment computes the installment together with the scale interest must
// be rounded to for that installment to retire the loan on schedule.
func levelPayment(principal, annualRatePercent decimal.Decimal, tenureYears int) (decimal.Decimal, int32) {
	if !principal.IsPositive() || annualRatePercent.IsNegative() || tenureYears <= 0 || tenureYears > MaxTenureYears {
		return decimal.Zero, InterestScale
	}
	n := tenureYears * 12
	if annualRatePercent.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(n))), InterestScale
	}

	r := domain.MonthlyRateFromAnnualPercent(annualRatePercent)
	if r.IsZero() {
		// rate too small to register at division precision
		return principal.Div(decimal.NewFromInt(int64(n))), InterestScale
	}
	growth := powInt(decimalOne.Add(r), n)
	denominator := growth.Sub(decimalOne)
	if !denominator.IsPositive() {
		return decimal.Zero, InterestScale
	}
	scale := amortizationScale(growth, n)
	payment := principal.Mul(r).Mul(growth).DivRound(denominator, divisionScale(scale))
	if !payment.IsPositive() {
		return decimal.Zero, InterestScale
	}
	return payment, scale
}

// amortizationScale sizes the interest scale to the loan. A rounding error of e
// in any month grows to at most e*n*(1+r)^n by the last month, so the scale
// carries enough digits past SettlementTolerance to absorb that growth.
// Ordinary loans stay at InterestScale.
func amortizationScale(growth decimal.Decimal, n int) int32 {
	bound := growth.Mul(decimal.NewFromInt(int64(n))).Truncate(0)
	scale := int32(len(bound.String())) - SettlementTolerance.Exponent() + 2
	if scale < InterestScale {
		return InterestScale
	}
	return scale
}

// divisionScale is the precision the installment division runs at: the
// package-wide decimal.DivisionPrecision, widened for loans that need more.
func divisionScale(interestScale int32) int32 {
	scale := int32(decimal.DivisionPrecision)
	if interestScale+4 > scale {
		scale = interestScale + 4
	}
	return scale
}

// InstallmentBreakdown summarizes an un-prepaid loan straight from the formula
type InstallmentBreakdown struct {
	Installment   decimal.Decimal `json:"installment"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TenureMonths  int             `json:"tenure_months"`
}

// SummarizeInstallment computes the installment and the nominal totals
// (installment * months) without running the month-by-month simulation.
func SummarizeInstallment(principal, annualRatePercent decimal.Decimal, tenureYears int) InstallmentBreakdown {
	installment := CalculateInstallment(principal, annualRatePercent, tenureYears)
	if installment.IsZero() {
		return InstallmentBreakdown{}
	}
	months := tenureYears * 12
	total := installment.Mul(decimal.NewFromInt(int64(months)))
	return InstallmentBreakdown{
		Installment:   installment,
		TotalPayable:  total,
		TotalInterest: decimal.Max(decimal.Zero, total.Sub(principal)),
		TenureMonths:  months,
	}
}

// powInt raises base to a non-negative integer power by repeated squaring.
// Decimal multiplication is exact, so the result carries full precision.
func powInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimalOne
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base)
		}
	}
	return result
}
