package mysql

import (
	"context"

	"loan-origination/internal/domain/loantype"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanTypeRepository struct{ db *gorm.DB }

func NewLoanTypeRepository(db *gorm.DB) *LoanTypeRepository { return &LoanTypeRepository{db: db} }

func (r *LoanTypeRepository) ListActive(ctx context.Context, c loantype.Category) ([]loantype.LoanType, error) {
	var out []loantype.LoanType
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if c != "" {
		q = q.Where("category = ?", c)
	}
	err := q.Order("category ASC, min_amount ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *LoanTypeRepository) GetBySlug(ctx context.Context, slug string) (*loantype.LoanType, error) {
	var out loantype.LoanType
	res := r.db.WithContext(ctx).Where("slug = ?", slug).First(&out)
	return &out, res.Error
}

func (r *LoanTypeRepository) GetByID(ctx context.Context, id uint64) (*loantype.LoanType, error) {
	var out loantype.LoanType
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

// Upsert writes reference data keyed by slug. Used by the seed command only.
func (r *LoanTypeRepository) Upsert(ctx context.Context, types []loantype.LoanType) error {
	if len(types) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "min_amount", "max_amount", "min_duration_months",
			"max_duration_months", "min_rate", "max_rate", "features", "active", "updated_at",
		}),
	}).Create(&types).Error
}
