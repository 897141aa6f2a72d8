package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserById(userID uint) (*domain.User, error)
	FindUserByResetToken(token string) (*domain.User, error)
	SaveUser(user *domain.User) error
	ListUsers(limit, offset int) ([]domain.User, error)
	CountActiveAdmins() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}
	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserById(userID uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, userID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByResetToken(token string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.Where("reset_token = ?", token).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return errors.New("failed to save user")
	}
	return nil
}

func (r *userRepository) ListUsers(limit, offset int) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountActiveAdmins() (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).
		Where("role = ? AND is_active = ?", domain.RoleAdmin, true).
		Count(&n).Error
	return n, err
}
