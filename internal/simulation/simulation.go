// Package simulation computes the repayment profile of an amortizing loan.
// It has no dependencies on storage or transport and is safe to call from
// anywhere.
package simulation

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrAmount   = errors.New("simulation: amount must be > 0")
	ErrDuration = errors.New("simulation: duration must be a positive number of months")
	ErrRate     = errors.New("simulation: annual rate must be >= 0")
)

type Input struct {
	Amount            float64
	DurationMonths    int
	AnnualRatePercent float64
}

// Result holds monetary outputs rounded to cents.
type Result struct {
	MonthlyPayment decimal.Decimal
	TotalCost      decimal.Decimal
	TotalInterest  decimal.Decimal
}

// Compute applies the standard amortization formula. Intermediate values
// keep full precision; the three outputs are rounded half away from zero
// to 2 places at the end.
func Compute(in Input) (Result, error) {
	if !(in.Amount > 0) || math.IsInf(in.Amount, 0) {
		return Result{}, ErrAmount
	}
	if in.DurationMonths <= 0 {
		return Result{}, ErrDuration
	}
	if !(in.AnnualRatePercent >= 0) || math.IsInf(in.AnnualRatePercent, 0) {
		return Result{}, ErrRate
	}

	n := float64(in.DurationMonths)
	monthlyRate := in.AnnualRatePercent / 100 / 12

	var payment float64
	if monthlyRate == 0 {
		payment = in.Amount / n
	} else {
		f := math.Pow(1+monthlyRate, n)
		payment = in.Amount * monthlyRate * f / (f - 1)
	}
	totalCost := payment * n
	totalInterest := totalCost - in.Amount

	return Result{
		MonthlyPayment: round(payment),
		TotalCost:      round(totalCost),
		TotalInterest:  round(totalInterest),
	}, nil
}

// MonthlyPayment is a float shortcut for callers that only need the
// installment, e.g. the wizard's live estimate.
func MonthlyPayment(amount float64, months int, annualRatePercent float64) (float64, error) {
	r, err := Compute(Input{Amount: amount, DurationMonths: months, AnnualRatePercent: annualRatePercent})
	if err != nil {
		return 0, err
	}
	return r.MonthlyPayment.InexactFloat64(), nil
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
