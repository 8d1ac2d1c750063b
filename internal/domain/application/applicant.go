package application

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/loantype"
)

const (
	MinPurposeLength     = 10
	MinCompanyNameLength = 2
)

var (
	errMixedFields     = errors.New("application: both applicant field sets populated")
	errUnknownCategory = errors.New("application: unknown application type")

	reSiret = regexp.MustCompile(`^[0-9]{14}$`)
)

// Applicant is the category-specific half of an application. The set of
// implementations is closed: Particular and Professional.
type Applicant interface {
	Category() loantype.Category
	Validate() error
	isApplicant()
}

type Particular struct {
	MonthlyIncome    float64 `json:"monthly_income"`
	EmploymentStatus string  `json:"employment_status"`
}

func (Particular) Category() loantype.Category { return loantype.CategoryParticular }
func (Particular) isApplicant()                {}

func (p Particular) Validate() error {
	if p.MonthlyIncome <= 0 {
		return apperr.Validation("monthly_income", "must be positive")
	}
	if strings.TrimSpace(p.EmploymentStatus) == "" {
		return apperr.Validation("employment_status", "is required")
	}
	return nil
}

type Professional struct {
	CompanyName   string  `json:"company_name"`
	Siret         string  `json:"siret"`
	AnnualRevenue float64 `json:"annual_revenue"`
}

func (Professional) Category() loantype.Category { return loantype.CategoryProfessional }
func (Professional) isApplicant()                {}

func (p Professional) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(p.CompanyName)) < MinCompanyNameLength {
		return apperr.Validation("company_name", "must be at least %d characters", MinCompanyNameLength)
	}
	if !ValidSiret(p.Siret) {
		return apperr.Validation("siret", "must be exactly 14 digits")
	}
	if p.AnnualRevenue <= 0 {
		return apperr.Validation("annual_revenue", "must be positive")
	}
	return nil
}

func ValidSiret(s string) bool { return reSiret.MatchString(s) }

func ValidatePurpose(purpose string) error {
	if utf8.RuneCountInString(strings.TrimSpace(purpose)) < MinPurposeLength {
		return apperr.Validation("purpose", "must be at least %d characters", MinPurposeLength)
	}
	return nil
}

// ValidateApplicant checks the full discriminated schema: the variant must
// match the declared category and its own fields must be valid.
func ValidateApplicant(category loantype.Category, ap Applicant, purpose string) error {
	if !category.Valid() {
		return apperr.Validation("application_type", "must be one of particular, professional")
	}
	if ap == nil {
		return apperr.Validation("application_type", "applicant details are required")
	}
	if ap.Category() != category {
		return apperr.Validation("application_type", "details do not match application type %s", category)
	}
	if err := ap.Validate(); err != nil {
		return err
	}
	return ValidatePurpose(purpose)
}
