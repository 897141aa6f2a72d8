package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
)

type OnboardingRepository interface {
	Create(req *domain.OnboardingRequest) error
	FindByToken(token string) (*domain.OnboardingRequest, error)
	FindByID(id uint) (*domain.OnboardingRequest, error)
	Save(req *domain.OnboardingRequest) error
	ListByStatus(status domain.OnboardingStatus, limit, offset int) ([]domain.OnboardingRequest, error)
	ExistsOtherWithPAN(pan string, excludeID uint) (bool, error)
	ExistsOtherWithAadhaar(aadhaar string, excludeID uint) (bool, error)
	Approve(req *domain.OnboardingRequest, user *domain.User, emp *domain.Employee) error
}

type onboardingRepository struct {
	db *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) OnboardingRepository {
	return &onboardingRepository{db: db}
}

func (r *onboardingRepository) Create(req *domain.OnboardingRequest) error {
	if req == nil {
		return errors.New("nil onboarding request")
	}
	if err := r.db.Create(req).Error; err != nil {
		log.Printf("create onboarding error: %v", err)
		return err
	}
	return nil
}

func (r *onboardingRepository) FindByToken(token string) (*domain.OnboardingRequest, error) {
	req := &domain.OnboardingRequest{}
	if err := r.db.Where("token = ?", token).First(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *onboardingRepository) FindByID(id uint) (*domain.OnboardingRequest, error) {
	req := &domain.OnboardingRequest{}
	if err := r.db.First(req, id).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *onboardingRepository) Save(req *domain.OnboardingRequest) error {
	if req == nil {
		return errors.New("nil onboarding request")
	}
	if err := r.db.Save(req).Error; err != nil {
		log.Printf("save onboarding error: %v", err)
		return errors.New("failed to save onboarding request")
	}
	return nil
}

func (r *onboardingRepository) ListByStatus(status domain.OnboardingStatus, limit, offset int) ([]domain.OnboardingRequest, error) {
	var reqs []domain.OnboardingRequest
	err := r.db.Where("status = ?", status).
		Order("submitted_at ASC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *onboardingRepository) ExistsOtherWithPAN(pan string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.Model(&domain.OnboardingRequest{}).
		Where("pan = ? AND id <> ?", pan, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *onboardingRepository) ExistsOtherWithAadhaar(aadhaar string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.Model(&domain.OnboardingRequest{}).
		Where("aadhaar = ? AND id <> ?", aadhaar, excludeID).
		Count(&n).Error
	return n > 0, err
}

// Approve commits the whole approval in one transaction: the new User,
// the new Employee linked to it, and the onboarding row flipped to
// approved. A crash can no longer leave a User without its Employee.
func (r *onboardingRepository) Approve(req *domain.OnboardingRequest, user *domain.User, emp *domain.Employee) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		emp.UserID = &user.ID
		if err := tx.Create(emp).Error; err != nil {
			return err
		}
		req.EmployeeRecordID = &emp.ID
		return tx.Save(req).Error
	})
}
