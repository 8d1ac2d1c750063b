package mysql

import (
	"context"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/document"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/notification"
	"loan-origination/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists the core tables in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&loantype.LoanType{},
		&application.LoanApplication{},
		&document.Document{},
		&contract.Contract{},
		&notification.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Seed upserts the loan type catalog and user projections in one
// transaction. Running it twice leaves the same rows.
func Seed(ctx context.Context, db *gorm.DB, types []loantype.LoanType, users []user.User) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewLoanTypeRepository(tx).Upsert(ctx, types); err != nil {
			return err
		}
		return NewUserRepository(tx).Upsert(ctx, users)
	})
}
