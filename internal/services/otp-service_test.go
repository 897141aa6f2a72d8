package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
)

func testAuth() helper.Auth {
	return helper.SetupAuth("test-secret", time.Hour)
}

func newOTPFixture() (*otpService, *fakeOTPRepo, *fakeUserRepo, *fakeAuditRepo, *fakeProducer) {
	otpRepo := newFakeOTPRepo()
	userRepo := newFakeUserRepo()
	auditRepo := &fakeAuditRepo{}
	producer := &fakeProducer{}
	svc := NewOTPService(otpRepo, userRepo, auditRepo, producer, testAuth(), "test").(*otpService)
	return svc, otpRepo, userRepo, auditRepo, producer
}

func register(t *testing.T, svc *otpService) {
	t.Helper()
	err := svc.RegisterWithOTP(dto.RegisterWithOTPRequest{
		Email:    "dev@workzen.io",
		Password: "secret1",
		FullName: "Dev Sharma",
	}, "10.0.0.1")
	require.NoError(t, err)
}

func latestPlainOTP(t *testing.T, repo *fakeOTPRepo) string {
	t.Helper()
	require.NotEmpty(t, repo.records)
	plain := repo.records[len(repo.records)-1].OTPPlain
	require.NotEmpty(t, plain)
	return plain
}

func TestRegisterWithOTPCreatesInactiveUser(t *testing.T) {
	svc, otpRepo, userRepo, auditRepo, producer := newOTPFixture()
	register(t, svc)

	user, err := userRepo.FindUserByEmail("dev@workzen.io")
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, domain.RoleEmployee, user.Role)

	assert.Len(t, otpRepo.records, 1)
	assert.Contains(t, producer.keys(), dto.EventAuthOTP)
	assert.Contains(t, auditRepo.actions(), domain.AuditOTPSent)
}

func TestRegisterWithOTPVerifiedEmailConflicts(t *testing.T) {
	svc, _, userRepo, _, _ := newOTPFixture()
	_, err := userRepo.CreateUser(&domain.User{
		Email:         "dev@workzen.io",
		EmailVerified: true,
		IsActive:      true,
	})
	require.NoError(t, err)

	err = svc.RegisterWithOTP(dto.RegisterWithOTPRequest{
		Email:    "dev@workzen.io",
		Password: "secret1",
		FullName: "Dev Sharma",
	}, "")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestVerifyOTPActivatesUser(t *testing.T) {
	svc, otpRepo, userRepo, _, producer := newOTPFixture()
	register(t, svc)
	code := latestPlainOTP(t, otpRepo)

	user, token, err := svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: code}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.IsActive)
	assert.True(t, user.EmailVerified)

	stored, err := userRepo.FindUserByEmail("dev@workzen.io")
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Contains(t, producer.keys(), dto.EventAuthOTPVerified)

	// the code is single-use
	_, _, err = svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: code}, "")
	assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)
}

func TestVerifyOTPAttemptExhaustion(t *testing.T) {
	svc, otpRepo, _, auditRepo, _ := newOTPFixture()
	register(t, svc)
	code := latestPlainOTP(t, otpRepo)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 1; i <= domain.OTPMaxAttempts; i++ {
		_, _, err := svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: wrong}, "")
		require.Error(t, err)
		// a wrong guess is the caller's fault, never a server fault
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), fmt.Sprintf("%d attempts remaining", domain.OTPMaxAttempts-i))
	}

	// the sixth call fails even with the correct code, and the record
	// is burned
	_, _, err := svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: code}, "")
	assert.ErrorIs(t, err, ErrOTPTooManyAttempts)
	assert.True(t, otpRepo.records[len(otpRepo.records)-1].Used)

	_, _, err = svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: code}, "")
	assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)

	assert.Contains(t, auditRepo.actions(), domain.AuditOTPVerifyFailed)
}

func TestResendOTPSupersedesPreviousCode(t *testing.T) {
	svc, otpRepo, _, _, _ := newOTPFixture()
	register(t, svc)
	first := latestPlainOTP(t, otpRepo)

	require.NoError(t, svc.ResendOTP("dev@workzen.io", ""))
	require.Len(t, otpRepo.records, 2)
	second := latestPlainOTP(t, otpRepo)

	// the first code is dead even if it was never guessed wrong
	if first != second {
		_, _, err := svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: first}, "")
		assert.Error(t, err)
	}

	_, _, err := svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: second}, "")
	assert.NoError(t, err)
}

func TestResendOTPUnknownEmailIsSilent(t *testing.T) {
	svc, otpRepo, _, _, producer := newOTPFixture()

	require.NoError(t, svc.ResendOTP("nobody@workzen.io", ""))
	assert.Empty(t, otpRepo.records)
	assert.Empty(t, producer.events)
}

func TestOTPExpiryWindow(t *testing.T) {
	svc, otpRepo, _, _, _ := newOTPFixture()
	register(t, svc)
	code := latestPlainOTP(t, otpRepo)

	issued := time.Now()
	svc.now = fixedNow(issued.Add(domain.OTPTTL + time.Minute))

	_, _, err := svc.VerifyOTP(dto.VerifyOTPRequest{Email: "dev@workzen.io", OTP: code}, "")
	assert.ErrorIs(t, err, ErrOTPInvalidOrExpired)
}
