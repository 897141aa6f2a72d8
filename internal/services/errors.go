package services

import (
	"errors"
	"fmt"
)

// Domain-guard errors; handlers map these onto the per-route status
// conventions (400/403/404/409).
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrLastAdmin          = errors.New("cannot deactivate the last active admin")
	ErrRoleNotAllowed     = errors.New("not allowed to manage this role")

	ErrTokenNotFound       = errors.New("onboarding link not found")
	ErrTokenExpired        = errors.New("onboarding link has expired")
	ErrOnboardingCompleted = errors.New("onboarding already completed")
	ErrDuplicatePAN        = errors.New("pan already registered on another onboarding")
	ErrDuplicateAadhaar    = errors.New("aadhaar already registered on another onboarding")
	ErrStepsIncomplete     = errors.New("personal and bank details must be completed before submitting")
	ErrAlreadyApproved     = errors.New("onboarding already approved")
	ErrNotPendingReview    = errors.New("onboarding is not pending review")

	ErrOTPInvalidOrExpired = errors.New("invalid or expired otp")
	ErrOTPTooManyAttempts  = errors.New("too many attempts, request a new otp")

	ErrResetTokenInvalid = errors.New("invalid or expired reset token")

	ErrEmployeeNotFound = errors.New("employee not found")
)

// ValidationError marks missing or malformed input; handlers answer
// these with 400 and the message names the offending field(s).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
