package mysql

import (
	"context"
	"errors"

	"loan-origination/internal/domain/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

// Create maps a unique-key violation to contract.ErrDuplicate. The db
// must be opened with TranslateError.
func (r *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicate
	}
	return err
}

func (r *ContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContractRepository) GetByContractID(ctx context.Context, contractID string) (*contract.Contract, error) {
	var out contract.Contract
	res := r.db.WithContext(ctx).Where("contract_id = ?", contractID).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) GetByContractIDForUpdate(ctx context.Context, contractID string) (*contract.Contract, error) {
	var out contract.Contract
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("contract_id = ?", contractID).
		First(&out)
	return &out, res.Error
}

func (r *ContractRepository) GetByApplicationID(ctx context.Context, applicationID uint64) (*contract.Contract, error) {
	var out contract.Contract
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	return &out, res.Error
}
