package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workzen/hr-service/internal/api/rest/middleware"
	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/helper/utils"
	"github.com/workzen/hr-service/internal/services"
)

type EmployeeHandler struct {
	svc  services.EmployeeService
	auth helper.Auth
	env  string
}

func NewEmployeeHandler(svc services.EmployeeService, auth helper.Auth, env string) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, auth: auth, env: env}
}

func (h *EmployeeHandler) SetupRoutes(app *fiber.App) {
	employees := app.Group("/api/employees",
		middleware.AuthMiddleware(h.auth),
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleHROfficer))

	employees.Post("/", h.CreateEmployee)
	employees.Get("/", h.ListEmployees)
	employees.Get("/:employee_id", h.GetEmployee)
	employees.Put("/:employee_id", h.UpdateEmployee)
	employees.Delete("/:employee_id", h.DeactivateEmployee)
}

func (h *EmployeeHandler) CreateEmployee(ctx *fiber.Ctx) error {
	var requestBody dto.EmployeeCreateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	emp, err := h.svc.CreateEmployee(requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, emp)
}

func (h *EmployeeHandler) ListEmployees(ctx *fiber.Ctx) error {
	limit, offset := pagination(ctx)

	emps, err := h.svc.ListEmployees(limit, offset)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"count":     len(emps),
		"employees": emps,
	})
}

func (h *EmployeeHandler) GetEmployee(ctx *fiber.Ctx) error {
	id, err := paramUint(ctx, "employee_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid employee id")
	}

	emp, err := h.svc.GetEmployee(id)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, emp)
}

func (h *EmployeeHandler) UpdateEmployee(ctx *fiber.Ctx) error {
	id, err := paramUint(ctx, "employee_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid employee id")
	}

	var requestBody dto.EmployeeUpdateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	emp, err := h.svc.UpdateEmployee(id, requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, emp)
}

// DeactivateEmployee is a soft operation; the row stays for payroll
// history and the employee id is never reissued.
func (h *EmployeeHandler) DeactivateEmployee(ctx *fiber.Ctx) error {
	id, err := paramUint(ctx, "employee_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid employee id")
	}

	if err := h.svc.DeactivateEmployee(id); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "employee deactivated",
	})
}
