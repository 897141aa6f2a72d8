package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
)

type OTPRepository interface {
	Create(otp *domain.EmailOTP) error
	// FindLatestUsable returns the most recently created row for the
	// email that is unused and unexpired, or gorm.ErrRecordNotFound.
	FindLatestUsable(email string, now time.Time) (*domain.EmailOTP, error)
	// InvalidateAll marks every unused row for the email as used, so a
	// freshly issued code supersedes its predecessors.
	InvalidateAll(email string) error
	Save(otp *domain.EmailOTP) error
}

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(otp *domain.EmailOTP) error {
	if otp == nil {
		return errors.New("nil otp")
	}
	return r.db.Create(otp).Error
}

func (r *otpRepository) FindLatestUsable(email string, now time.Time) (*domain.EmailOTP, error) {
	otp := &domain.EmailOTP{}
	err := r.db.
		Where("email = ? AND used = ? AND expires_at > ?", email, false, now).
		Order("created_at DESC").
		First(otp).Error
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *otpRepository) InvalidateAll(email string) error {
	return r.db.Model(&domain.EmailOTP{}).
		Where("email = ? AND used = ?", email, false).
		Update("used", true).Error
}

func (r *otpRepository) Save(otp *domain.EmailOTP) error {
	if otp == nil {
		return errors.New("nil otp")
	}
	return r.db.Save(otp).Error
}
