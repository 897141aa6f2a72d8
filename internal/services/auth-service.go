package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/interfaces"
	"github.com/workzen/hr-service/internal/repository"
	"github.com/workzen/hr-service/pkg/utils"
)

type AuthService interface {
	Login(input dto.UserLogin) (*domain.User, string, error)
	GetProfile(userID uint) (*domain.User, error)
	UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*domain.User, error)
	ChangePassword(userID uint, input dto.ChangePasswordRequest) error
	ForgotPassword(email string) error
	ResetPassword(input dto.ResetPasswordRequest) error
}

type authService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	producer interfaces.ProducerHandler
	baseURL  string
}

func NewAuthService(
	repo repository.UserRepository,
	auth helper.Auth,
	producer interfaces.ProducerHandler,
	frontendBaseURL string,
) AuthService {
	return &authService{
		repo:     repo,
		auth:     auth,
		producer: producer,
		baseURL:  strings.TrimRight(frontendBaseURL, "/"),
	}
}

// Login returns the same error for an unknown email and a wrong
// password so the surface cannot be used to enumerate accounts. A
// deactivated account is the one distinguishable case.
func (s *authService) Login(input dto.UserLogin) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, "", ErrInvalidCredentials
	}
	if err := s.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	token, err := s.auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) GetProfile(userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.repo.FindUserById(userID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, validationf("full_name cannot be empty")
		}
		user.FullName = name
	}

	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uint, input dto.ChangePasswordRequest) error {
	if strings.TrimSpace(input.NewPassword) == "" {
		return validationf("new password is required")
	}
	if len(input.NewPassword) < 6 {
		return validationf("password must be at least 6 characters")
	}

	user, err := s.repo.FindUserById(userID)
	if err != nil || user == nil {
		return ErrUserNotFound
	}
	if err := s.auth.VerifyPassword(input.OldPassword, user.PasswordHash); err != nil {
		return validationf("old password is incorrect")
	}

	hashed, err := s.auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	return s.repo.SaveUser(user)
}

// ForgotPassword always reports success to the caller; the handler
// returns a generic message whether or not the account exists.
func (s *authService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil
	}

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("forgot password lookup error: %v", err)
		}
		return nil
	}

	plain, err := utils.RandomToken(32)
	if err != nil {
		return errors.New("failed to generate reset token")
	}
	exp := time.Now().Add(24 * time.Hour)

	user.ResetToken = plain
	user.ResetTokenExpiry = &exp
	if err := s.repo.SaveUser(user); err != nil {
		return err
	}

	publishMail(s.producer, dto.MailEvent{
		Event: dto.EventAuthResetPassword,
		To:    user.Email,
		Data: map[string]string{
			"name": user.FullName,
			"link": s.baseURL + "/reset-password?token=" + plain,
		},
	})
	return nil
}

func (s *authService) ResetPassword(input dto.ResetPasswordRequest) error {
	token := strings.TrimSpace(input.Token)
	newPassword := strings.TrimSpace(input.NewPassword)
	if token == "" || newPassword == "" {
		return validationf("token and new password are required")
	}
	if len(newPassword) < 6 {
		return validationf("password must be at least 6 characters")
	}

	user, err := s.repo.FindUserByResetToken(token)
	if err != nil || user == nil {
		return ErrResetTokenInvalid
	}
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrResetTokenInvalid
	}

	hashed, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	return s.repo.SaveUser(user)
}
