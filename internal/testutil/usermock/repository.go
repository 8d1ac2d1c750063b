package usermock

import (
	"context"

	domain "loan-origination/internal/domain/user"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

// Static serves a fixed set of users.
func Static(users ...domain.User) *Repo {
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	return &Repo{GetByUserIDFn: func(_ context.Context, id string) (*domain.User, error) {
		u, ok := byID[id]
		if !ok {
			return nil, gorm.ErrRecordNotFound
		}
		return &u, nil
	}}
}
