package uow

import (
	"context"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/document"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/notification"
	"loan-origination/internal/domain/user"
)

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	LoanTypes     loantype.Repository
	Applications  application.Repository
	Documents     document.Repository
	Contracts     contract.Repository
	Notifications notification.Repository
	Users         user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.LoanApplication) error) error
}
