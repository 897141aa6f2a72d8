package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/interfaces"
	"github.com/workzen/hr-service/internal/repository"
	"github.com/workzen/hr-service/pkg/utils"
)

type OTPService interface {
	RegisterWithOTP(input dto.RegisterWithOTPRequest, ip string) error
	ResendOTP(email, ip string) error
	VerifyOTP(input dto.VerifyOTPRequest, ip string) (*domain.User, string, error)
}

type otpService struct {
	otpRepo   repository.OTPRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	producer  interfaces.ProducerHandler
	auth      helper.Auth
	env       string
	now       func() time.Time
}

func NewOTPService(
	otpRepo repository.OTPRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
	env string,
) OTPService {
	return &otpService{
		otpRepo:   otpRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		producer:  producer,
		auth:      auth,
		env:       env,
		now:       time.Now,
	}
}

// RegisterWithOTP creates (or refreshes) an inactive, unverified user
// and sends the first code. A verified account on the same email is a
// conflict.
func (s *otpService) RegisterWithOTP(input dto.RegisterWithOTPRequest, ip string) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	fullName := strings.TrimSpace(input.FullName)
	if email == "" || strings.TrimSpace(input.Password) == "" || fullName == "" {
		return validationf("email, password and full_name are required")
	}
	if len(input.Password) < 6 {
		return validationf("password must be at least 6 characters")
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return err
	}

	existing, err := s.userRepo.FindUserByEmail(email)
	switch {
	case err == nil && existing != nil && existing.ID != 0:
		if existing.EmailVerified {
			return ErrEmailExists
		}
		// a stalled registration may retry with fresh credentials
		existing.PasswordHash = hashed
		existing.FullName = fullName
		if err := s.userRepo.SaveUser(existing); err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := &domain.User{
			Email:         email,
			PasswordHash:  hashed,
			FullName:      fullName,
			Role:          domain.RoleEmployee,
			IsActive:      false,
			EmailVerified: false,
		}
		if _, err := s.userRepo.CreateUser(user); err != nil {
			if helper.IsUniqueViolation(err, "") {
				return ErrEmailExists
			}
			return err
		}
	default:
		return err
	}

	return s.issue(email, ip, domain.AuditOTPSent)
}

// ResendOTP is anti-enumeration: the handler always answers with a
// generic success, so an unknown or already-verified email is a no-op.
func (s *otpService) ResendOTP(email, ip string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil
	}

	user, err := s.userRepo.FindUserByEmail(email)
	if err != nil || user == nil || user.EmailVerified {
		return nil
	}
	return s.issue(email, ip, domain.AuditOTPResent)
}

// issue supersedes every previous code for the email before storing
// the new one, so only the newest code is ever authoritative.
func (s *otpService) issue(email, ip, auditAction string) error {
	if err := s.otpRepo.InvalidateAll(email); err != nil {
		return err
	}

	plain, err := utils.GenerateOTP(6)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash otp")
	}

	otp := &domain.EmailOTP{
		Email:     email,
		OTPHash:   string(hash),
		ExpiresAt: s.now().Add(domain.OTPTTL),
	}
	if s.env != "prod" {
		otp.OTPPlain = plain
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return err
	}

	publishMail(s.producer, dto.MailEvent{
		Event: dto.EventAuthOTP,
		To:    email,
		Data:  map[string]string{"otp": plain},
	})
	s.audit(email, auditAction, "verification code issued", ip)
	return nil
}

// VerifyOTP validates the newest usable code for the email. On success
// the user becomes active and verified and a session token is issued.
func (s *otpService) VerifyOTP(input dto.VerifyOTPRequest, ip string) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	candidate := strings.TrimSpace(input.OTP)
	if email == "" || candidate == "" {
		return nil, "", validationf("email and otp are required")
	}

	otp, err := s.otpRepo.FindLatestUsable(email, s.now())
	if err != nil {
		return nil, "", ErrOTPInvalidOrExpired
	}

	if otp.Attempts >= domain.OTPMaxAttempts {
		otp.Used = true
		if err := s.otpRepo.Save(otp); err != nil {
			return nil, "", err
		}
		return nil, "", ErrOTPTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(otp.OTPHash), []byte(candidate)) != nil {
		otp.Attempts++
		if err := s.otpRepo.Save(otp); err != nil {
			return nil, "", err
		}
		s.audit(email, domain.AuditOTPVerifyFailed, fmt.Sprintf("attempt %d", otp.Attempts), ip)
		remaining := domain.OTPMaxAttempts - otp.Attempts
		return nil, "", validationf("incorrect otp, %d attempts remaining", remaining)
	}

	otp.Used = true
	if err := s.otpRepo.Save(otp); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindUserByEmail(email)
	if err != nil || user == nil {
		return nil, "", ErrUserNotFound
	}
	user.EmailVerified = true
	user.IsActive = true
	if err := s.userRepo.SaveUser(user); err != nil {
		return nil, "", err
	}

	s.audit(email, domain.AuditOTPVerified, "email verified", ip)
	publishMail(s.producer, dto.MailEvent{
		Event: dto.EventAuthOTPVerified,
		To:    email,
		Data:  map[string]string{"name": user.FullName},
	})

	token, err := s.auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// audit is log-and-continue: a failed audit write never blocks the
// verification outcome.
func (s *otpService) audit(email, action, details, ip string) {
	if s.auditRepo == nil {
		return
	}
	entry := &domain.AuditLog{
		ActorEmail: email,
		Action:     action,
		Details:    details,
		IPAddress:  ip,
	}
	if err := s.auditRepo.Append(entry); err != nil {
		log.Printf("audit append error (%s): %v", action, err)
	}
}
