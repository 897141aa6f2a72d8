package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/repository"
	"github.com/workzen/hr-service/pkg/crypto"
)

type EmployeeService interface {
	CreateEmployee(input dto.EmployeeCreateRequest) (*dto.EmployeeResponse, error)
	GetEmployee(id uint) (*dto.EmployeeResponse, error)
	ListEmployees(limit, offset int) ([]dto.EmployeeResponse, error)
	UpdateEmployee(id uint, input dto.EmployeeUpdateRequest) (*dto.EmployeeResponse, error)
	DeactivateEmployee(id uint) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	allocator *EmployeeIDAllocator
	cipher    *crypto.FieldCipher
}

func NewEmployeeService(repo repository.EmployeeRepository, allocator *EmployeeIDAllocator, cipher *crypto.FieldCipher) EmployeeService {
	return &employeeService{repo: repo, allocator: allocator, cipher: cipher}
}

// CreateEmployee is the direct HR path (no onboarding flow). PII goes
// through the field cipher before it is written.
func (s *employeeService) CreateEmployee(input dto.EmployeeCreateRequest) (*dto.EmployeeResponse, error) {
	firstName := strings.TrimSpace(input.FirstName)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if firstName == "" || email == "" {
		return nil, validationf("first_name and email are required")
	}

	joining, err := time.Parse("2006-01-02", strings.TrimSpace(input.JoiningDate))
	if err != nil {
		return nil, validationf("joining_date must be YYYY-MM-DD")
	}

	employeeID, err := s.allocator.Allocate()
	if err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		EmployeeID:  employeeID,
		FirstName:   firstName,
		LastName:    strings.TrimSpace(input.LastName),
		Email:       email,
		Phone:       strings.TrimSpace(input.Phone),
		Department:  strings.TrimSpace(input.Department),
		Position:    strings.TrimSpace(input.Position),
		JoiningDate: joining,
		Salary:      input.Salary,
		Status:      domain.EmployeeStatusActive,
	}

	for _, f := range []struct {
		plain string
		dst   *string
	}{
		{strings.ToUpper(strings.TrimSpace(input.PAN)), &emp.PAN},
		{strings.TrimSpace(input.Aadhaar), &emp.Aadhaar},
		{strings.ToUpper(strings.TrimSpace(input.IFSC)), &emp.IFSC},
		{strings.TrimSpace(input.BankAccountNumber), &emp.BankAccountNumber},
	} {
		enc, err := s.cipher.Encrypt(f.plain)
		if err != nil {
			return nil, err
		}
		*f.dst = enc
	}

	if err := s.repo.Create(emp); err != nil {
		return nil, err
	}
	return s.toResponse(emp)
}

func (s *employeeService) GetEmployee(id uint) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return s.toResponse(emp)
}

func (s *employeeService) ListEmployees(limit, offset int) ([]dto.EmployeeResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	emps, err := s.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		resp, err := s.toResponse(&emps[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *employeeService) UpdateEmployee(id uint, input dto.EmployeeUpdateRequest) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if input.Phone != nil {
		emp.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Department != nil {
		emp.Department = strings.TrimSpace(*input.Department)
	}
	if input.Position != nil {
		emp.Position = strings.TrimSpace(*input.Position)
	}
	if input.Salary != nil {
		emp.Salary = *input.Salary
	}
	if input.Status != nil {
		status := strings.TrimSpace(strings.ToLower(*input.Status))
		if status != domain.EmployeeStatusActive && status != domain.EmployeeStatusInactive {
			return nil, validationf("invalid status")
		}
		emp.Status = status
	}

	if err := s.repo.Save(emp); err != nil {
		return nil, err
	}
	return s.toResponse(emp)
}

// DeactivateEmployee soft-deletes: the row stays, status flips.
func (s *employeeService) DeactivateEmployee(id uint) error {
	emp, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	emp.Status = domain.EmployeeStatusInactive
	return s.repo.Save(emp)
}

// toResponse decrypts PII only to mask it; plaintext stays inside.
func (s *employeeService) toResponse(emp *domain.Employee) (*dto.EmployeeResponse, error) {
	resp := &dto.EmployeeResponse{
		ID:          emp.ID,
		EmployeeID:  emp.EmployeeID,
		FirstName:   emp.FirstName,
		LastName:    emp.LastName,
		Email:       emp.Email,
		Phone:       emp.Phone,
		Department:  emp.Department,
		Position:    emp.Position,
		JoiningDate: emp.JoiningDate,
		Status:      emp.Status,
	}

	pan, err := s.cipher.Decrypt(emp.PAN)
	if err != nil {
		return nil, err
	}
	aadhaar, err := s.cipher.Decrypt(emp.Aadhaar)
	if err != nil {
		return nil, err
	}
	account, err := s.cipher.Decrypt(emp.BankAccountNumber)
	if err != nil {
		return nil, err
	}

	resp.PAN = crypto.MaskPAN(pan)
	resp.Aadhaar = crypto.MaskAadhaar(aadhaar)
	resp.BankAccount = crypto.MaskAccountNumber(account)
	return resp, nil
}
