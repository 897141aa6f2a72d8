package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workzen/hr-service/internal/api/rest/middleware"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/helper/utils"
	"github.com/workzen/hr-service/internal/services"
)

type AuthHandler struct {
	svc  services.AuthService
	otp  services.OTPService
	auth helper.Auth
	env  string
}

func NewAuthHandler(svc services.AuthService, otp services.OTPService, auth helper.Auth, env string) *AuthHandler {
	return &AuthHandler{svc: svc, otp: otp, auth: auth, env: env}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/register-with-otp", h.RegisterWithOTP)
	auth.Post("/verify-otp", h.VerifyOTP)
	auth.Post("/resend-otp", h.ResendOTP)
	auth.Post("/login", h.Login)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)
	auth.Post("/verify-token", h.VerifyToken)

	private := auth.Use(middleware.AuthMiddleware(h.auth))
	private.Get("/profile", h.GetProfile)
	private.Put("/profile", h.UpdateProfile)
	private.Post("/change-password", h.ChangePassword)
}

func (h *AuthHandler) RegisterWithOTP(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterWithOTPRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.otp.RegisterWithOTP(requestBody, ctx.IP()); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "verification code sent to your email",
	})
}

func (h *AuthHandler) VerifyOTP(ctx *fiber.Ctx) error {
	var requestBody dto.VerifyOTPRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, token, err := h.otp.VerifyOTP(requestBody, ctx.IP())
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// ResendOTP always answers the same way so the route cannot be used to
// probe which emails are registered.
func (h *AuthHandler) ResendOTP(ctx *fiber.Ctx) error {
	var requestBody dto.ResendOTPRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email is required")
	}

	if err := h.otp.ResendOTP(requestBody.Email, ctx.IP()); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "if the account exists, a new code has been sent",
	})
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	user, token, err := h.svc.Login(requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (h *AuthHandler) GetProfile(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetProfile(claims.UserID)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) UpdateProfile(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UpdateProfileRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, err := h.svc.UpdateProfile(claims.UserID, requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) ChangePassword(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.ChangePasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.ChangePassword(claims.UserID, requestBody); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "password changed",
	})
}

// ForgotPassword is anti-enumeration: the response is identical whether
// or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email is required")
	}

	if err := h.svc.ForgotPassword(requestBody.Email); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "if the account exists, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.ResetPassword(requestBody); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "password has been reset",
	})
}

// VerifyToken lets a frontend check whether a stored token is still
// good without performing any action with it.
func (h *AuthHandler) VerifyToken(ctx *fiber.Ctx) error {
	var requestBody struct {
		Token string `json:"token"`
	}
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Token == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "token is required")
	}

	claims, err := h.auth.VerifyToken(requestBody.Token)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "invalid or expired token")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"valid": true,
		"user": fiber.Map{
			"id":    claims.UserID,
			"email": claims.Email,
			"role":  claims.Role,
		},
	})
}
