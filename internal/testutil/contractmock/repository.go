package contractmock

import (
	"context"

	domain "loan-origination/internal/domain/contract"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn                   func(ctx context.Context, c *domain.Contract) error
	SaveFn                     func(ctx context.Context, c *domain.Contract) error
	GetByContractIDFn          func(ctx context.Context, contractID string) (*domain.Contract, error)
	GetByContractIDForUpdateFn func(ctx context.Context, contractID string) (*domain.Contract, error)
	GetByApplicationIDFn       func(ctx context.Context, applicationID uint64) (*domain.Contract, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Contract) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Contract) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByContractID(ctx context.Context, contractID string) (*domain.Contract, error) {
	if m.GetByContractIDFn != nil {
		return m.GetByContractIDFn(ctx, contractID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByContractIDForUpdate(ctx context.Context, contractID string) (*domain.Contract, error) {
	if m.GetByContractIDForUpdateFn != nil {
		return m.GetByContractIDForUpdateFn(ctx, contractID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID uint64) (*domain.Contract, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, gorm.ErrRecordNotFound
}
