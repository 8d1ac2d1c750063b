package user

import (
	"context"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the read-only projection of the users table this service needs.
// Credentials live with the authentication service.
type User struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    string    `gorm:"size:32;uniqueIndex:ux_users_user_id;not null" json:"user_id"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	FirstName string    `gorm:"size:128" json:"first_name"`
	LastName  string    `gorm:"size:128" json:"last_name"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'customer'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*User, error)
}

// Principal is the authenticated caller as seen by the usecases.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) Authenticated() bool { return p.UserID != "" }
