package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/workzen/hr-service/internal/api/rest/middleware"
	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/helper/utils"
	"github.com/workzen/hr-service/internal/services"
	pkgutils "github.com/workzen/hr-service/pkg/utils"
)

type OnboardingHandler struct {
	svc       services.OnboardingService
	auth      helper.Auth
	env       string
	maxUpload int64 // bytes, per file
}

func NewOnboardingHandler(svc services.OnboardingService, auth helper.Auth, env string, maxUploadMB int64) *OnboardingHandler {
	return &OnboardingHandler{
		svc:       svc,
		auth:      auth,
		env:       env,
		maxUpload: maxUploadMB * 1024 * 1024,
	}
}

func (h *OnboardingHandler) SetupRoutes(app *fiber.App) {
	onboarding := app.Group("/api/onboarding")

	// Candidate-facing: the invite token is the only credential.
	onboarding.Get("/validate/:token", h.ValidateToken)
	onboarding.Put("/personal/:token", h.SavePersonalInfo)
	onboarding.Put("/bank/:token", h.SaveBankInfo)
	onboarding.Post("/upload/:token", h.UploadDocuments)
	onboarding.Post("/submit/:token", h.Submit)
	onboarding.Get("/details/:token", h.GetDetails)

	// HR-facing: bearer auth plus role guard.
	hr := onboarding.Group("",
		middleware.AuthMiddleware(h.auth),
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleHROfficer))
	hr.Post("/invite", h.Invite)
	hr.Post("/ocr/extract/:onboarding_id", h.ExtractDocument)
	hr.Get("/reviews/pending", h.PendingReviews)
	hr.Put("/approve/:onboarding_id", h.Approve)
	hr.Put("/request-changes/:onboarding_id", h.RequestChanges)
	hr.Put("/reject/:onboarding_id", h.Reject)
}

func (h *OnboardingHandler) Invite(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.InviteRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	req, err := h.svc.Invite(claims, requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"onboarding": req,
		"note":       "invitation email sent to the candidate",
	})
}

func (h *OnboardingHandler) ValidateToken(ctx *fiber.Ctx) error {
	req, err := h.svc.ValidateToken(ctx.Params("token"))
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"valid": true,
		"onboarding": dto.ValidateTokenResponse{
			Valid:      true,
			Candidate:  req.CandidateName,
			Department: req.Department,
			Position:   req.Position,
			Status:     string(req.Status),
		},
	})
}

func (h *OnboardingHandler) SavePersonalInfo(ctx *fiber.Ctx) error {
	var requestBody dto.PersonalInfoRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	step, err := h.svc.SavePersonalInfo(ctx.Params("token"), requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.StepResponse{
		Message:       "personal information saved",
		StepCompleted: step,
	})
}

func (h *OnboardingHandler) SaveBankInfo(ctx *fiber.Ctx) error {
	var requestBody dto.BankInfoRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	step, err := h.svc.SaveBankInfo(ctx.Params("token"), requestBody)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.StepResponse{
		Message:       "bank information saved",
		StepCompleted: step,
	})
}

// UploadDocuments accepts a multipart form where each field name is
// the document type (pan_card, aadhaar_card, ...). Files are read
// fully in the handler so the per-file size limit applies before
// anything leaves the process.
func (h *OnboardingHandler) UploadDocuments(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "multipart form with at least one file is required")
	}

	var files []dto.DocumentFile
	for docType, headers := range form.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				return utils.ResponseError(ctx, fiber.StatusBadRequest, "could not read uploaded file "+header.Filename)
			}
			b, err := pkgutils.ReadAllLimit(f, h.maxUpload)
			f.Close()
			if err != nil {
				return utils.ResponseError(ctx, fiber.StatusBadRequest, header.Filename+" exceeds the upload size limit")
			}
			files = append(files, dto.DocumentFile{
				DocType:  strings.ToLower(strings.TrimSpace(docType)),
				Filename: filepath.Base(header.Filename),
				Bytes:    b,
			})
		}
	}

	step, docs, err := h.svc.UploadDocuments(ctx.Context(), ctx.Params("token"), files)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message":        "documents uploaded",
		"step_completed": step,
		"documents":      docs,
	})
}

// ExtractDocument runs OCR over an already-uploaded document and
// returns advisory fields for the reviewer. Nothing is written back.
func (h *OnboardingHandler) ExtractDocument(ctx *fiber.Ctx) error {
	id, err := paramUint(ctx, "onboarding_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid onboarding id")
	}

	var requestBody struct {
		DocType string `json:"doc_type"`
	}
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.DocType == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "doc_type is required")
	}

	fields, err := h.svc.ExtractDocument(ctx.Context(), id, strings.ToLower(requestBody.DocType))
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "text extracted",
		"data":    fields,
	})
}

func (h *OnboardingHandler) Submit(ctx *fiber.Ctx) error {
	if err := h.svc.Submit(ctx.Params("token")); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "onboarding submitted for review",
		"status":  domain.OnboardingStatusPendingReview,
	})
}

func (h *OnboardingHandler) PendingReviews(ctx *fiber.Ctx) error {
	limit, offset := pagination(ctx)

	reqs, err := h.svc.PendingReviews(limit, offset)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"count":       len(reqs),
		"onboardings": reqs,
	})
}

func (h *OnboardingHandler) Approve(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := paramUint(ctx, "onboarding_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid onboarding id")
	}

	employeeID, emailSent, err := h.svc.Approve(claims, id)
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ApproveResponse{
		Message:    "onboarding approved",
		EmployeeID: employeeID,
		EmailSent:  emailSent,
	})
}

func (h *OnboardingHandler) RequestChanges(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := paramUint(ctx, "onboarding_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid onboarding id")
	}

	var requestBody dto.RequestChangesRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.RequestChanges(claims, id, requestBody); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "changes requested, candidate has been notified",
	})
}

func (h *OnboardingHandler) Reject(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := paramUint(ctx, "onboarding_id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid onboarding id")
	}

	var requestBody dto.RejectRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.Reject(claims, id, requestBody); err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "onboarding rejected",
	})
}

func (h *OnboardingHandler) GetDetails(ctx *fiber.Ctx) error {
	details, err := h.svc.GetDetails(ctx.Params("token"))
	if err != nil {
		return respondServiceError(ctx, h.env, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"onboarding": details,
	})
}
