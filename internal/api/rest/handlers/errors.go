package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/workzen/hr-service/internal/helper/utils"
	"github.com/workzen/hr-service/internal/services"
)

// statusFor maps domain-guard errors onto the per-route status
// conventions; anything unrecognized is an internal error.
func statusFor(err error) int {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest
	}
	switch {
	case errors.Is(err, services.ErrTokenNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEmployeeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailExists):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrAccountDeactivated),
		errors.Is(err, services.ErrRoleNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrOnboardingCompleted),
		errors.Is(err, services.ErrDuplicatePAN),
		errors.Is(err, services.ErrDuplicateAadhaar),
		errors.Is(err, services.ErrStepsIncomplete),
		errors.Is(err, services.ErrAlreadyApproved),
		errors.Is(err, services.ErrNotPendingReview),
		errors.Is(err, services.ErrOTPInvalidOrExpired),
		errors.Is(err, services.ErrOTPTooManyAttempts),
		errors.Is(err, services.ErrResetTokenInvalid),
		errors.Is(err, services.ErrLastAdmin):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError hides internal error text in prod but keeps it
// in development responses.
func respondServiceError(ctx *fiber.Ctx, env string, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", ctx.Method(), ctx.Path(), err)
		if env == "prod" {
			msg = "internal server error"
		}
	}
	return utils.ResponseError(ctx, status, msg)
}
