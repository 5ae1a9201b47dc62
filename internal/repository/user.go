// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/cache"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDFresh(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, rdb *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: rdb}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID serves reads through the cache. The cached copy goes through
// the JSON tags, so fields hidden from clients (the password hash) are
// absent from it; callers that write the row back must use GetByIDFresh.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDFresh bypasses the cache and reads the full row.
func (r *userRepository) GetByIDFresh(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if err == nil {
		r.cache.InvalidateUser(ctx, user.ID)
	}
	return err
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	var users []*models.User
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("username LIKE ? OR full_name LIKE ?", like, like).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
