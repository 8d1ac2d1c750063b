package loantype

import "context"

// Repository is read-only: the catalog is managed outside this service.
type Repository interface {
	// ListActive returns active loan types, optionally filtered by category
	// (empty category = all).
	ListActive(ctx context.Context, category Category) ([]LoanType, error)
	// GetBySlug resolves a loan type whatever its active flag.
	GetBySlug(ctx context.Context, slug string) (*LoanType, error)
	GetByID(ctx context.Context, id uint64) (*LoanType, error)
}
