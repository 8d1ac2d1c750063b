package application

import (
	"time"

	domain "loan-origination/internal/domain/application"
	"loan-origination/internal/domain/loantype"
)

type CreateInput struct {
	LoanTypeID              string
	Applicant               domain.Applicant
	ApplicationType         loantype.Category
	Amount                  float64
	DurationMonths          int
	Purpose                 string
	EstimatedRate           float64
	EstimatedMonthlyPayment float64
}

type ApplicationDTO struct {
	ApplicationID           string               `json:"application_id"`
	UserID                  string               `json:"user_id"`
	LoanTypeID              string               `json:"loan_type_id"`
	ApplicationType         loantype.Category    `json:"application_type"`
	Amount                  float64              `json:"amount"`
	DurationMonths          int                  `json:"duration_months"`
	Particular              *domain.Particular   `json:"particular,omitempty"`
	Professional            *domain.Professional `json:"professional,omitempty"`
	Purpose                 string               `json:"purpose"`
	EstimatedRate           float64              `json:"estimated_rate"`
	EstimatedMonthlyPayment float64              `json:"estimated_monthly_payment"`
	Status                  domain.Status        `json:"status"`
	StatusMessage           *string              `json:"status_message,omitempty"`
	HasContract             bool                 `json:"has_contract"`
	ReviewedBy              *string              `json:"reviewed_by,omitempty"`
	ReviewedAt              *time.Time           `json:"reviewed_at,omitempty"`
	SubmittedAt             time.Time            `json:"submitted_at"`
	UpdatedAt               time.Time            `json:"updated_at"`
}

type PageDTO struct {
	Items    []ApplicationDTO `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
}

// ToDTO flattens the stored row; the applicant variant is matched
// exhaustively so exactly one of Particular/Professional is set.
func ToDTO(a *domain.LoanApplication) ApplicationDTO {
	dto := ApplicationDTO{
		ApplicationID:           a.ApplicationID,
		UserID:                  a.UserID,
		ApplicationType:         a.ApplicationType,
		Amount:                  a.Amount,
		DurationMonths:          a.DurationMonths,
		Purpose:                 a.Purpose,
		EstimatedRate:           a.EstimatedRate,
		EstimatedMonthlyPayment: a.EstimatedMonthlyPayment,
		Status:                  a.Status,
		StatusMessage:           a.StatusMessage,
		HasContract:             a.ContractID != nil,
		ReviewedBy:              a.ReviewedBy,
		ReviewedAt:              a.ReviewedAt,
		SubmittedAt:             a.SubmittedAt,
		UpdatedAt:               a.UpdatedAt,
	}
	if a.LoanType != nil {
		dto.LoanTypeID = a.LoanType.Slug
	}
	if ap, err := a.Applicant(); err == nil {
		switch v := ap.(type) {
		case domain.Particular:
			dto.Particular = &v
		case domain.Professional:
			dto.Professional = &v
		}
	}
	return dto
}
