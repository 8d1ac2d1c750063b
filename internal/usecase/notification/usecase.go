package notification

import (
	"context"

	"loan-origination/internal/domain/apperr"
	domain "loan-origination/internal/domain/notification"
	"loan-origination/internal/domain/user"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

// List returns the caller's inbox, newest first.
func (u *Usecase) List(ctx context.Context, caller user.Principal, limit int) ([]domain.Notification, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	out, err := u.repo.ListByUser(ctx, caller.UserID, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}
