package wizard

import (
	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/document"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/simulation"
)

// Form accumulates what the borrower entered across the steps. Estimates are
// recomputed whenever amount or duration changes.
type Form struct {
	LoanTypeID      string            `json:"loan_type_id"`
	ApplicationType loantype.Category `json:"application_type"`
	Amount          float64           `json:"amount"`
	DurationMonths  int               `json:"duration_months"`

	EstimatedRate           *float64 `json:"estimated_rate,omitempty"`
	EstimatedMonthlyPayment *float64 `json:"estimated_monthly_payment,omitempty"`

	Particular   application.Particular   `json:"particular"`
	Professional application.Professional `json:"professional"`
	Purpose      string                   `json:"purpose"`

	Uploaded map[document.Type]int `json:"uploaded,omitempty"`

	loanType *loantype.LoanType
}

func NewForm() *Form {
	return &Form{Uploaded: map[document.Type]int{}}
}

// SelectLoanType records the product and the rate assumption used for
// estimates (the loan type's minimum rate).
func (f *Form) SelectLoanType(lt *loantype.LoanType) {
	f.loanType = lt
	if lt == nil {
		f.LoanTypeID = ""
	} else {
		f.LoanTypeID = lt.Slug
	}
	f.recompute()
}

func (f *Form) LoanType() *loantype.LoanType { return f.loanType }

func (f *Form) SetApplicationType(c loantype.Category) { f.ApplicationType = c }

func (f *Form) SetAmount(amount float64) {
	f.Amount = amount
	f.recompute()
}

func (f *Form) SetDuration(months int) {
	f.DurationMonths = months
	f.recompute()
}

func (f *Form) recompute() {
	f.EstimatedRate, f.EstimatedMonthlyPayment = nil, nil
	if f.loanType == nil || f.Amount <= 0 || f.DurationMonths <= 0 {
		return
	}
	rate := f.loanType.MinRate
	payment, err := simulation.MonthlyPayment(f.Amount, f.DurationMonths, rate)
	if err != nil {
		return
	}
	f.EstimatedRate = &rate
	f.EstimatedMonthlyPayment = &payment
}

// Applicant returns the variant matching the chosen application type, or
// nil when no valid type is selected.
func (f *Form) Applicant() application.Applicant {
	switch f.ApplicationType {
	case loantype.CategoryParticular:
		return f.Particular
	case loantype.CategoryProfessional:
		return f.Professional
	default:
		return nil
	}
}

func (f *Form) MarkUploaded(t document.Type) {
	if f.Uploaded == nil {
		f.Uploaded = map[document.Type]int{}
	}
	f.Uploaded[t]++
}

func (f *Form) MarkRemoved(t document.Type) {
	if f.Uploaded[t] <= 1 {
		delete(f.Uploaded, t)
		return
	}
	f.Uploaded[t]--
}

func (f *Form) uploadedSet() map[document.Type]bool {
	out := make(map[document.Type]bool, len(f.Uploaded))
	for t, n := range f.Uploaded {
		if n > 0 {
			out[t] = true
		}
	}
	return out
}

// Payload is the single creation request sent on submit.
type Payload struct {
	LoanTypeID              string
	ApplicationType         loantype.Category
	Amount                  float64
	DurationMonths          int
	Applicant               application.Applicant
	Purpose                 string
	EstimatedRate           float64
	EstimatedMonthlyPayment float64
}

func (f *Form) Payload() Payload {
	p := Payload{
		LoanTypeID:      f.LoanTypeID,
		ApplicationType: f.ApplicationType,
		Amount:          f.Amount,
		DurationMonths:  f.DurationMonths,
		Applicant:       f.Applicant(),
		Purpose:         f.Purpose,
	}
	if f.EstimatedRate != nil {
		p.EstimatedRate = *f.EstimatedRate
	}
	if f.EstimatedMonthlyPayment != nil {
		p.EstimatedMonthlyPayment = *f.EstimatedMonthlyPayment
	}
	return p
}
