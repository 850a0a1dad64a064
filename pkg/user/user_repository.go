package user

import (
	"Compliance-Shield/entities"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	UserRepository interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByPhone(ctx context.Context, phone string) (*entities.User, error)
		FirstOrCreateByPhone(ctx context.Context, user *entities.User) (*entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByPhone(ctx context.Context, phone string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FirstOrCreateByPhone inserts user unless the phone is already registered,
// and returns the stored row either way.
func (r *userRepository) FirstOrCreateByPhone(ctx context.Context, user *entities.User) (*entities.User, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).
		Create(user).Error; err != nil {
		return nil, err
	}
	return r.GetUserByPhone(ctx, user.Phone)
}
