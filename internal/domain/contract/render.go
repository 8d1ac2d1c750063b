package contract

import (
	"context"
	"time"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/loantype"
)

// Terms is everything the rendered agreement shows.
type Terms struct {
	ContractNumber string
	Application    *application.LoanApplication
	LoanType       *loantype.LoanType
	Applicant      application.Applicant
	BorrowerName   string
	Message        string
	IssuedAt       time.Time
}

// Renderer produces the agreement file. Implementations are opaque to the
// workflow; only the bytes and their content type are stored.
type Renderer interface {
	Render(ctx context.Context, t Terms) (body []byte, contentType string, err error)
}
