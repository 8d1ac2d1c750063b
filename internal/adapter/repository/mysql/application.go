package mysql

import (
	"context"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/loantype"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Associations are never written through an application.
func (r *ApplicationRepository) Create(ctx context.Context, a *application.LoanApplication) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *ApplicationRepository) Save(ctx context.Context, a *application.LoanApplication) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*application.LoanApplication, error) {
	var out application.LoanApplication
	res := r.db.WithContext(ctx).Preload("LoanType").Where("application_id = ?", applicationID).First(&out)
	return &out, res.Error
}

// GetByApplicationIDForUpdate locks the row; only meaningful inside a tx.
func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*application.LoanApplication, error) {
	var out application.LoanApplication
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", applicationID).
		First(&out)
	if res.Error != nil {
		return &out, res.Error
	}
	// loaded separately so the lock covers the application row only
	var lt loantype.LoanType
	if err := r.db.WithContext(ctx).First(&lt, out.LoanTypeID).Error; err != nil {
		return &out, err
	}
	out.LoanType = &lt
	return &out, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint64) (*application.LoanApplication, error) {
	var out application.LoanApplication
	res := r.db.WithContext(ctx).Preload("LoanType").First(&out, id)
	return &out, res.Error
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]application.LoanApplication, error) {
	var out []application.LoanApplication
	err := r.db.WithContext(ctx).Preload("LoanType").
		Where("user_id = ?", userID).
		Order("submitted_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *ApplicationRepository) List(ctx context.Context, f application.ListFilter) ([]application.LoanApplication, int64, error) {
	q := r.db.WithContext(ctx).Model(&application.LoanApplication{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []application.LoanApplication
	err := q.Preload("LoanType").
		Order("submitted_at DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&out).Error
	return out, total, err
}
