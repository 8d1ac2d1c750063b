package mysql

import (
	"context"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos binds every repository to db (a tx or the pool).
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		LoanTypes:     &LoanTypeRepository{db: db},
		Applications:  &ApplicationRepository{db: db},
		Documents:     &DocumentRepository{db: db},
		Contracts:     &ContractRepository{db: db},
		Notifications: &NotificationRepository{db: db},
		Users:         &UserRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

func (u *GormUoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *application.LoanApplication) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		// lock the application row up-front to serialize reviewers
		a, err := r.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
