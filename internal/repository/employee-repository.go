package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
)

type EmployeeRepository interface {
	Create(emp *domain.Employee) error
	FindByID(id uint) (*domain.Employee, error)
	FindByEmployeeID(employeeID string) (*domain.Employee, error)
	Save(emp *domain.Employee) error
	List(limit, offset int) ([]domain.Employee, error)
	CountByJoiningYear(year int) (int64, error)
	ExistsEmployeeID(employeeID string) (bool, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(emp *domain.Employee) error {
	if emp == nil {
		return errors.New("nil employee")
	}
	if err := r.db.Create(emp).Error; err != nil {
		log.Printf("create employee error: %v", err)
		return err
	}
	return nil
}

func (r *employeeRepository) FindByID(id uint) (*domain.Employee, error) {
	emp := &domain.Employee{}
	if err := r.db.First(emp, id).Error; err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *employeeRepository) FindByEmployeeID(employeeID string) (*domain.Employee, error) {
	emp := &domain.Employee{}
	if err := r.db.Where("employee_id = ?", employeeID).First(emp).Error; err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *employeeRepository) Save(emp *domain.Employee) error {
	if emp == nil {
		return errors.New("nil employee")
	}
	if err := r.db.Save(emp).Error; err != nil {
		log.Printf("save employee error: %v", err)
		return errors.New("failed to save employee")
	}
	return nil
}

func (r *employeeRepository) List(limit, offset int) ([]domain.Employee, error) {
	var emps []domain.Employee
	if err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&emps).Error; err != nil {
		return nil, err
	}
	return emps, nil
}

// CountByJoiningYear feeds the employee-id serial: the serial for a
// new hire is the number of employees who joined in the same calendar
// year, plus one.
func (r *employeeRepository) CountByJoiningYear(year int) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Employee{}).
		Where("EXTRACT(YEAR FROM joining_date) = ?", year).
		Count(&n).Error
	return n, err
}

func (r *employeeRepository) ExistsEmployeeID(employeeID string) (bool, error) {
	var n int64
	err := r.db.Model(&domain.Employee{}).
		Where("employee_id = ?", employeeID).
		Count(&n).Error
	return n > 0, err
}
