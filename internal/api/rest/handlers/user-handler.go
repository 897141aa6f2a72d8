package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/workzen/hr-service/internal/api/rest/middleware"
	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/helper/utils"
	"github.com/workzen/hr-service/internal/services"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
	env  string
}

func NewUserHandler(svc services.UserService, auth helper.Auth, env string) *UserHandler {
	return &UserHandler{svc: svc, auth: auth, env: env}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	users := app.Group("/api/users",
		middleware.AuthMiddleware(h.auth),
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleHROfficer))

	users.Post("/", h.CreateUser)
	users.Get("/", h.ListUsers)
	users.Put("/:user_id", h.UpdateUser)
	users.Patch("/:user_id/status", h.SetStatus)
}

func (h *UserHandler) CreateUser(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UserCreateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, err := h.svc.CreateUser(claims, requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	limit, offset := pagination(ctx)

	users, err := h.svc.ListUsers(limit, offset)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"count": len(out),
		"users": out,
	})
}

func (h *UserHandler) UpdateUser(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	targetID, err := paramUint(ctx, "user_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var requestBody dto.UserUpdateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, err := h.svc.UpdateUser(claims, targetID, requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toUserResponse(user))
}

func (h *UserHandler) SetStatus(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	targetID, err := paramUint(ctx, "user_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var requestBody dto.SetUserStatusRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.SetUserStatus(claims, targetID, requestBody.IsActive); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "user status updated",
	})
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          user.Role,
		IsActive:      user.IsActive,
		EmailVerified: user.EmailVerified,
	}
}

func paramUint(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func pagination(ctx *fiber.Ctx) (limit, offset int) {
	limit = ctx.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset = ctx.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
