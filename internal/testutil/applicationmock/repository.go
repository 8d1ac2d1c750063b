package applicationmock

import (
	"context"

	domain "loan-origination/internal/domain/application"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies application.Repository.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.LoanApplication) error
	SaveFn                        func(ctx context.Context, a *domain.LoanApplication) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.LoanApplication, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, applicationID string) (*domain.LoanApplication, error)
	GetByIDFn                     func(ctx context.Context, id uint64) (*domain.LoanApplication, error)
	ListByUserFn                  func(ctx context.Context, userID string) ([]domain.LoanApplication, error)
	ListFn                        func(ctx context.Context, f domain.ListFilter) ([]domain.LoanApplication, int64, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.LoanApplication) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.LoanApplication) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.LoanApplication, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.LoanApplication, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, applicationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.LoanApplication, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.LoanApplication, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.LoanApplication, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}
