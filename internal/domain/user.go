package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool { return r == RoleCreator || r == RoleAdmin }

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191" json:"email"`
	PasswordHash string         `gorm:"size:191" json:"-"`
	Name         string         `gorm:"size:64" json:"name"`
	Organization string         `gorm:"size:128" json:"organization,omitempty"`
	Phone        string         `gorm:"size:32" json:"phone,omitempty"`
	Role         Role           `gorm:"size:16;default:creator" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, q string, page Page) ([]User, int64, error)
}
