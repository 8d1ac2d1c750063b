package wizard

import (
	"context"
	"strings"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/document"
)

// Validator gates forward navigation out of one step.
type Validator func(ctx context.Context, f *Form) error

// DefaultValidators returns the step rules. Callers may override entries,
// e.g. to check uploads against the server instead of the local form.
func DefaultValidators() map[Step]Validator {
	return map[Step]Validator{
		StepLoanType:     validateLoanType,
		StepSimulation:   validateSimulation,
		StepApplicant:    validateApplicant,
		StepDocuments:    validateDocuments,
		StepConfirmation: func(context.Context, *Form) error { return nil },
	}
}

// ValidateStep runs the default rule for one step.
func ValidateStep(ctx context.Context, step Step, f *Form) error {
	v, ok := DefaultValidators()[step]
	if !ok {
		return apperr.Validation("step", "unknown step %d", step)
	}
	return v(ctx, f)
}

func validateLoanType(_ context.Context, f *Form) error {
	if strings.TrimSpace(f.LoanTypeID) == "" {
		return apperr.Validation("loan_type_id", "is required")
	}
	if !f.ApplicationType.Valid() {
		return apperr.Validation("application_type", "must be one of particular, professional")
	}
	return nil
}

func validateSimulation(_ context.Context, f *Form) error {
	switch {
	case f.Amount <= 0:
		return apperr.Validation("amount", "is required")
	case f.DurationMonths <= 0:
		return apperr.Validation("duration_months", "is required")
	case f.EstimatedRate == nil:
		return apperr.Validation("estimated_rate", "is required")
	case f.EstimatedMonthlyPayment == nil:
		return apperr.Validation("estimated_monthly_payment", "is required")
	}
	return nil
}

func validateApplicant(_ context.Context, f *Form) error {
	return application.ValidateApplicant(f.ApplicationType, f.Applicant(), f.Purpose)
}

func validateDocuments(_ context.Context, f *Form) error {
	missing := document.MissingTypes(f.ApplicationType, f.uploadedSet())
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, t := range missing {
		names[i] = string(t)
	}
	return apperr.Validation("documents", "missing required documents: %s", strings.Join(names, ", "))
}
