package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/repository"
)

// rolePolicy is the single place the "who may manage whom" rules live:
// admins manage everyone, hr_officers manage everyone except admins
// and may never grant the admin role.
var rolePolicy = map[string]map[string]bool{
	domain.RoleAdmin: {
		domain.RoleAdmin:      true,
		domain.RoleHROfficer:  true,
		domain.RoleManager:    true,
		domain.RoleEmployee:   true,
		domain.RoleContractor: true,
	},
	domain.RoleHROfficer: {
		domain.RoleHROfficer:  true,
		domain.RoleManager:    true,
		domain.RoleEmployee:   true,
		domain.RoleContractor: true,
	},
}

func canManageRole(actorRole, targetRole string) bool {
	allowed, ok := rolePolicy[actorRole]
	return ok && allowed[targetRole]
}

type UserService interface {
	CreateUser(actor dto.AuthClaims, input dto.UserCreateRequest) (*domain.User, error)
	ListUsers(limit, offset int) ([]domain.User, error)
	UpdateUser(actor dto.AuthClaims, targetID uint, input dto.UserUpdateRequest) (*domain.User, error)
	SetUserStatus(actor dto.AuthClaims, targetID uint, active bool) error
}

type userService struct {
	repo     repository.UserRepository
	roleRepo repository.RoleRepository
	auth     helper.Auth
}

func NewUserService(repo repository.UserRepository, roleRepo repository.RoleRepository, auth helper.Auth) UserService {
	return &userService{repo: repo, roleRepo: roleRepo, auth: auth}
}

func (s *userService) CreateUser(actor dto.AuthClaims, input dto.UserCreateRequest) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	fullName := strings.TrimSpace(input.FullName)
	role := strings.TrimSpace(strings.ToLower(input.Role))

	if email == "" || strings.TrimSpace(input.Password) == "" || fullName == "" {
		return nil, validationf("email, password and full_name are required")
	}
	if len(input.Password) < 6 {
		return nil, validationf("password must be at least 6 characters")
	}
	if role == "" {
		role = domain.RoleEmployee
	}
	if _, err := s.roleRepo.FindByCode(role); err != nil {
		return nil, validationf("invalid role")
	}
	if !canManageRole(actor.Role, role) {
		return nil, ErrRoleNotAllowed
	}

	if existing, err := s.repo.FindUserByEmail(email); err == nil && existing != nil && existing.ID != 0 {
		return nil, ErrEmailExists
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:         email,
		PasswordHash:  hashed,
		FullName:      fullName,
		Role:          role,
		IsActive:      true,
		EmailVerified: true,
	}
	if _, err := s.repo.CreateUser(user); err != nil {
		if helper.IsUniqueViolation(err, "") {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListUsers(limit, offset)
}

func (s *userService) UpdateUser(actor dto.AuthClaims, targetID uint, input dto.UserUpdateRequest) (*domain.User, error) {
	user, err := s.repo.FindUserById(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !canManageRole(actor.Role, user.Role) {
		return nil, ErrRoleNotAllowed
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, validationf("full_name cannot be empty")
		}
		user.FullName = name
	}

	if input.Role != nil {
		newRole := strings.TrimSpace(strings.ToLower(*input.Role))
		if _, err := s.roleRepo.FindByCode(newRole); err != nil {
			return nil, validationf("invalid role")
		}
		if !canManageRole(actor.Role, newRole) {
			return nil, ErrRoleNotAllowed
		}
		// demoting an admin may not orphan the system
		if user.Role == domain.RoleAdmin && newRole != domain.RoleAdmin && user.IsActive {
			admins, err := s.repo.CountActiveAdmins()
			if err != nil {
				return nil, err
			}
			if admins <= 1 {
				return nil, ErrLastAdmin
			}
		}
		user.Role = newRole
	}

	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUserStatus soft-deletes or revives a user. Deactivating the sole
// remaining active admin is refused.
func (s *userService) SetUserStatus(actor dto.AuthClaims, targetID uint, active bool) error {
	user, err := s.repo.FindUserById(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !canManageRole(actor.Role, user.Role) {
		return ErrRoleNotAllowed
	}

	if !active && user.Role == domain.RoleAdmin && user.IsActive {
		admins, err := s.repo.CountActiveAdmins()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	user.IsActive = active
	return s.repo.SaveUser(user)
}
