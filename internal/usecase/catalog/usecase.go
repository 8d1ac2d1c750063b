package catalog

import (
	"context"
	"time"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/readmodel"
	"loan-origination/internal/infrastructure/logger"
)

type Usecase struct {
	repo  loantype.Repository
	cache readmodel.Cache
	ttl   time.Duration
}

// NewUsecase: cache may be nil.
func NewUsecase(r loantype.Repository, c readmodel.Cache, ttl time.Duration) *Usecase {
	return &Usecase{repo: r, cache: c, ttl: ttl}
}

// List returns active loan types, optionally narrowed to one category.
func (u *Usecase) List(ctx context.Context, category string) ([]loantype.LoanType, error) {
	c := loantype.Category(category)
	if c != "" && !c.Valid() {
		return nil, apperr.Validation("category", "must be one of particular, professional")
	}

	key := readmodel.CatalogKey(category)
	if u.cache != nil {
		var cached []loantype.LoanType
		ok, err := u.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn(ctx, "catalog: cache get %s: %v", key, err)
		} else if ok {
			return cached, nil
		}
	}

	out, err := u.repo.ListActive(ctx, c)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []loantype.LoanType{}
	}
	if u.cache != nil {
		if err := u.cache.Set(ctx, key, out, u.ttl); err != nil {
			logger.Warn(ctx, "catalog: cache set %s: %v", key, err)
		}
	}
	return out, nil
}

// Get resolves a loan type by its public id whatever its active flag.
func (u *Usecase) Get(ctx context.Context, slug string) (*loantype.LoanType, error) {
	lt, err := u.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.FromLookup(err, "loan type %s not found", slug)
	}
	return lt, nil
}
