package application

import (
	"time"

	"loan-origination/internal/domain/loantype"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

// LoanApplication is a borrower's request against one LoanType. Exactly one
// of the two category-specific column groups is non-null; use Applicant and
// SetApplicant rather than touching those columns directly.
type LoanApplication struct {
	ID            uint64             `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID string             `gorm:"size:32;uniqueIndex:ux_loan_applications_application_id;not null" json:"application_id"`
	UserID        string             `gorm:"size:32;index:idx_loan_applications_user;not null" json:"user_id"`
	LoanTypeID    uint64             `gorm:"not null;index" json:"-"`
	LoanType      *loantype.LoanType `gorm:"foreignKey:LoanTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	ApplicationType loantype.Category `gorm:"type:varchar(16);not null" json:"application_type"`
	Amount          float64           `gorm:"type:decimal(18,2);not null" json:"amount"`
	DurationMonths  int               `gorm:"not null" json:"duration_months"`

	// particular
	MonthlyIncome    *float64 `gorm:"type:decimal(18,2)" json:"-"`
	EmploymentStatus *string  `gorm:"size:64" json:"-"`
	// professional
	CompanyName   *string  `gorm:"size:255" json:"-"`
	Siret         *string  `gorm:"size:14" json:"-"`
	AnnualRevenue *float64 `gorm:"type:decimal(18,2)" json:"-"`

	Purpose                 string  `gorm:"type:text;not null" json:"purpose"`
	EstimatedRate           float64 `gorm:"type:decimal(6,3)" json:"estimated_rate"`
	EstimatedMonthlyPayment float64 `gorm:"type:decimal(18,2)" json:"estimated_monthly_payment"`

	Status        Status  `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	StatusMessage *string `gorm:"type:text" json:"status_message,omitempty"`

	// ContractID mirrors contracts.application_id, which carries the foreign key.
	ContractID *uint64 `gorm:"index" json:"-"`

	ReviewedBy  *string    `gorm:"size:32" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	SubmittedAt time.Time  `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanApplication) TableName() string { return "loan_applications" }

// Applicant rebuilds the tagged variant from the stored columns.
func (a *LoanApplication) Applicant() (Applicant, error) {
	switch a.ApplicationType {
	case loantype.CategoryParticular:
		if a.CompanyName != nil || a.Siret != nil || a.AnnualRevenue != nil {
			return nil, errMixedFields
		}
		return Particular{
			MonthlyIncome:    deref(a.MonthlyIncome),
			EmploymentStatus: deref(a.EmploymentStatus),
		}, nil
	case loantype.CategoryProfessional:
		if a.MonthlyIncome != nil || a.EmploymentStatus != nil {
			return nil, errMixedFields
		}
		return Professional{
			CompanyName:   deref(a.CompanyName),
			Siret:         deref(a.Siret),
			AnnualRevenue: deref(a.AnnualRevenue),
		}, nil
	default:
		return nil, errUnknownCategory
	}
}

// SetApplicant stores the variant and nulls the columns of the other one.
func (a *LoanApplication) SetApplicant(ap Applicant) {
	a.MonthlyIncome, a.EmploymentStatus = nil, nil
	a.CompanyName, a.Siret, a.AnnualRevenue = nil, nil, nil

	switch v := ap.(type) {
	case Particular:
		a.ApplicationType = loantype.CategoryParticular
		a.MonthlyIncome = &v.MonthlyIncome
		a.EmploymentStatus = &v.EmploymentStatus
	case Professional:
		a.ApplicationType = loantype.CategoryProfessional
		a.CompanyName = &v.CompanyName
		a.Siret = &v.Siret
		a.AnnualRevenue = &v.AnnualRevenue
	}
}

func (a *LoanApplication) OwnedBy(userID string) bool { return a.UserID == userID }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
