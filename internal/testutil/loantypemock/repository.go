package loantypemock

import (
	"context"

	domain "loan-origination/internal/domain/loantype"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock of loantype.Repository. Unset lookups
// behave like an empty table.
type Repo struct {
	ListActiveFn func(ctx context.Context, c domain.Category) ([]domain.LoanType, error)
	GetBySlugFn  func(ctx context.Context, slug string) (*domain.LoanType, error)
	GetByIDFn    func(ctx context.Context, id uint64) (*domain.LoanType, error)
}

func (m *Repo) ListActive(ctx context.Context, c domain.Category) ([]domain.LoanType, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, c)
	}
	return nil, nil
}

func (m *Repo) GetBySlug(ctx context.Context, slug string) (*domain.LoanType, error) {
	if m.GetBySlugFn != nil {
		return m.GetBySlugFn(ctx, slug)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.LoanType, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// Static returns a Repo serving the given loan types.
func Static(types ...domain.LoanType) *Repo {
	return &Repo{
		ListActiveFn: func(_ context.Context, c domain.Category) ([]domain.LoanType, error) {
			var out []domain.LoanType
			for _, lt := range types {
				if lt.Active && (c == "" || lt.Category == c) {
					out = append(out, lt)
				}
			}
			return out, nil
		},
		GetBySlugFn: func(_ context.Context, slug string) (*domain.LoanType, error) {
			for i := range types {
				if types[i].Slug == slug {
					lt := types[i]
					return &lt, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
		GetByIDFn: func(_ context.Context, id uint64) (*domain.LoanType, error) {
			for i := range types {
				if types[i].ID == id {
					lt := types[i]
					return &lt, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}
