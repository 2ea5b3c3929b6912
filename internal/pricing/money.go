package pricing

import "github.com/shopspring/decimal"

// amortizationScale is the number of fractional digits kept for intermediate
// decimal values before the final rounding to whole won.
const amortizationScale = 20

var (
	decimalOne    = decimal.NewFromInt(1)
	monthsPerYear = decimal.NewFromInt(12)
)

// roundWon rounds to the nearest whole won, ties away from zero. Every caller
// passes a non-negative value, so this is round-half-up.
func roundWon(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// applyRate returns round(amount * rate).
func applyRate(amount int64, rate decimal.Decimal) int64 {
	return roundWon(decimal.NewFromInt(amount).Mul(rate))
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Amortize returns the equal monthly payment that repays principal over months
// at annualRate, using the annuity formula
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1),  r = annualRate / 12
//
// r and (1+r)^n are held at amortizationScale fractional digits, and the
// payment is rounded half-up to whole won. A zero rate degrades to P/n.
// Non-positive principal or months yields 0.
func Amortize(principal int64, annualRate decimal.Decimal, months int) int64 {
	if principal <= 0 || months <= 0 {
		return 0
	}

	p := decimal.NewFromInt(principal)
	n := decimal.NewFromInt(int64(months))
	if annualRate.IsZero() {
		return roundWon(p.DivRound(n, amortizationScale))
	}

	r := annualRate.DivRound(monthsPerYear, amortizationScale)
	base := decimalOne.Add(r)
	growth := decimalOne
	for i := 0; i < months; i++ {
		growth = growth.Mul(base).Round(amortizationScale)
	}

	payment := p.Mul(r).Mul(growth).DivRound(growth.Sub(decimalOne), amortizationScale)
	return roundWon(payment)
}

// vatPortion returns the VAT contained in a VAT-inclusive amount.
func vatPortion(gross int64, vatRate decimal.Decimal) int64 {
	if gross <= 0 || vatRate.IsZero() {
		return 0
	}
	net := roundWon(decimal.NewFromInt(gross).DivRound(decimalOne.Add(vatRate), amortizationScale))
	return clampZero(gross - net)
}
