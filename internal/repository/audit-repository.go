package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
)

type AuditRepository interface {
	Append(entry *domain.AuditLog) error
	ListByActor(email string, limit, offset int) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(entry *domain.AuditLog) error {
	if entry == nil {
		return errors.New("nil audit entry")
	}
	return r.db.Create(entry).Error
}

func (r *auditRepository) ListByActor(email string, limit, offset int) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog
	err := r.db.Where("actor_email = ?", email).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
