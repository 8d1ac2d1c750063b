package application

import "context"

type ListFilter struct {
	Status   Status
	Page     int
	PageSize int
}

type Repository interface {
	Create(ctx context.Context, a *LoanApplication) error
	Save(ctx context.Context, a *LoanApplication) error
	GetByApplicationID(ctx context.Context, applicationID string) (*LoanApplication, error)
	// GetByApplicationIDForUpdate locks the row for the enclosing transaction.
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*LoanApplication, error)
	GetByID(ctx context.Context, id uint64) (*LoanApplication, error)
	ListByUser(ctx context.Context, userID string) ([]LoanApplication, error)
	List(ctx context.Context, f ListFilter) ([]LoanApplication, int64, error)
}
