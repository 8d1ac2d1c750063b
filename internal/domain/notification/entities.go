package notification

import (
	"context"
	"time"
)

type Notification struct {
	ID        uint64     `gorm:"primaryKey;column:id" json:"-"`
	UserID    string     `gorm:"size:32;index:idx_notifications_user;not null" json:"user_id"`
	Kind      string     `gorm:"size:64;not null" json:"kind"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Reference string     `gorm:"size:32" json:"reference,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
}
