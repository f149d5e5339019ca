package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scicomp-hub/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepo) List(ctx context.Context, q string, page domain.Page) ([]domain.User, int64, error) {
	page = page.Clamp()
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("email LIKE ? OR name LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := tx.Order("created_at DESC, id ASC").Offset(page.Offset).Limit(page.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
