package loantype

import "loan-origination/internal/domain/apperr"

// CheckAmount returns a validation error naming the violated bounds.
func (lt *LoanType) CheckAmount(amount float64) error {
	if !lt.AmountInBounds(amount) {
		return apperr.Validation("amount", "amount %.2f is outside the allowed range %.2f to %.2f for %s",
			amount, lt.MinAmount, lt.MaxAmount, lt.Name)
	}
	return nil
}

func (lt *LoanType) CheckDuration(months int) error {
	if !lt.DurationInBounds(months) {
		return apperr.Validation("duration_months", "duration %d months is outside the allowed range %d to %d months for %s",
			months, lt.MinDurationMonths, lt.MaxDurationMonths, lt.Name)
	}
	return nil
}
