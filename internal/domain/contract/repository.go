package contract

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Create when the application already owns a
// contract.
var ErrDuplicate = errors.New("contract already exists for application")

type Repository interface {
	Create(ctx context.Context, c *Contract) error
	Save(ctx context.Context, c *Contract) error
	GetByContractID(ctx context.Context, contractID string) (*Contract, error)
	GetByContractIDForUpdate(ctx context.Context, contractID string) (*Contract, error)
	GetByApplicationID(ctx context.Context, applicationID uint64) (*Contract, error)
}
