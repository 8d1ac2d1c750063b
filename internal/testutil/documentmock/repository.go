package documentmock

import (
	"context"

	domain "loan-origination/internal/domain/document"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn             func(ctx context.Context, d *domain.Document) error
	SaveFn               func(ctx context.Context, d *domain.Document) error
	DeleteFn             func(ctx context.Context, d *domain.Document) error
	GetByDocumentIDFn    func(ctx context.Context, documentID string) (*domain.Document, error)
	ListByScopeFn        func(ctx context.Context, s domain.Scope) ([]domain.Document, error)
	ListByScopeAndTypeFn func(ctx context.Context, s domain.Scope, t domain.Type) ([]domain.Document, error)
	ListByApplicationFn  func(ctx context.Context, applicationID uint64) ([]domain.Document, error)
	AttachFn             func(ctx context.Context, userID string, applicationID uint64, types []domain.Type) (int64, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Document) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, d *domain.Document) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, d *domain.Document) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByDocumentID(ctx context.Context, documentID string) (*domain.Document, error) {
	if m.GetByDocumentIDFn != nil {
		return m.GetByDocumentIDFn(ctx, documentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByScope(ctx context.Context, s domain.Scope) ([]domain.Document, error) {
	if m.ListByScopeFn != nil {
		return m.ListByScopeFn(ctx, s)
	}
	return nil, nil
}

func (m *Repo) ListByScopeAndType(ctx context.Context, s domain.Scope, t domain.Type) ([]domain.Document, error) {
	if m.ListByScopeAndTypeFn != nil {
		return m.ListByScopeAndTypeFn(ctx, s, t)
	}
	return nil, nil
}

func (m *Repo) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Document, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) Attach(ctx context.Context, userID string, applicationID uint64, types []domain.Type) (int64, error) {
	if m.AttachFn != nil {
		return m.AttachFn(ctx, userID, applicationID, types)
	}
	return 0, nil
}
