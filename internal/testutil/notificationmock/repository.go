package notificationmock

import (
	"context"

	domain "loan-origination/internal/domain/notification"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn     func(ctx context.Context, n *domain.Notification) error
	ListByUserFn func(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	return nil, nil
}
