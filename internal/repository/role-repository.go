package repository

import (
	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
)

type RoleRepository interface {
	FindByCode(code string) (*domain.Role, error)
	List(limit, offset int) ([]domain.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByCode(code string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(limit, offset int) ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
