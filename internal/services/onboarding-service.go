package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
	"github.com/workzen/hr-service/internal/interfaces"
	"github.com/workzen/hr-service/internal/repository"
	"github.com/workzen/hr-service/pkg/crypto"
	"github.com/workzen/hr-service/pkg/utils"
)

const (
	documentMaxWidth = 1200
	documentQuality  = 85
)

type OnboardingService interface {
	Invite(actor dto.AuthClaims, input dto.InviteRequest) (*domain.OnboardingRequest, error)
	ValidateToken(token string) (*domain.OnboardingRequest, error)
	SavePersonalInfo(token string, input dto.PersonalInfoRequest) (int, error)
	SaveBankInfo(token string, input dto.BankInfoRequest) (int, error)
	UploadDocuments(ctx context.Context, token string, files []dto.DocumentFile) (int, map[string]string, error)
	ExtractDocument(ctx context.Context, onboardingID uint, docType string) (*dto.OCRFields, error)
	Submit(token string) error
	PendingReviews(limit, offset int) ([]domain.OnboardingRequest, error)
	Approve(actor dto.AuthClaims, onboardingID uint) (string, bool, error)
	RequestChanges(actor dto.AuthClaims, onboardingID uint, input dto.RequestChangesRequest) error
	Reject(actor dto.AuthClaims, onboardingID uint, input dto.RejectRequest) error
	GetDetails(token string) (*dto.OnboardingDetails, error)
}

type onboardingService struct {
	repo      repository.OnboardingRepository
	userRepo  repository.UserRepository
	allocator *EmployeeIDAllocator
	cipher    *crypto.FieldCipher
	uploader  interfaces.Uploader
	ocr       interfaces.TextExtractor
	producer  interfaces.ProducerHandler
	auth      helper.Auth
	baseURL   string
	now       func() time.Time
}

func NewOnboardingService(
	repo repository.OnboardingRepository,
	userRepo repository.UserRepository,
	allocator *EmployeeIDAllocator,
	cipher *crypto.FieldCipher,
	uploader interfaces.Uploader,
	ocr interfaces.TextExtractor,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
	frontendBaseURL string,
) OnboardingService {
	return &onboardingService{
		repo:      repo,
		userRepo:  userRepo,
		allocator: allocator,
		cipher:    cipher,
		uploader:  uploader,
		ocr:       ocr,
		producer:  producer,
		auth:      auth,
		baseURL:   strings.TrimRight(frontendBaseURL, "/"),
		now:       time.Now,
	}
}

// Invite opens a new onboarding with a fresh 256-bit token and mails
// the candidate a link carrying the token as a query parameter.
func (s *onboardingService) Invite(actor dto.AuthClaims, input dto.InviteRequest) (*domain.OnboardingRequest, error) {
	email := strings.TrimSpace(strings.ToLower(input.CandidateEmail))
	name := strings.TrimSpace(input.CandidateName)
	if email == "" || name == "" {
		return nil, validationf("candidate_email and candidate_name are required")
	}

	joining, err := time.Parse("2006-01-02", strings.TrimSpace(input.JoiningDate))
	if err != nil {
		return nil, validationf("joining_date must be YYYY-MM-DD")
	}

	token, err := utils.RandomToken(32)
	if err != nil {
		return nil, errors.New("failed to generate onboarding token")
	}

	req := &domain.OnboardingRequest{
		CandidateEmail: email,
		CandidateName:  name,
		Department:     strings.TrimSpace(input.Department),
		Position:       strings.TrimSpace(input.Position),
		JoiningDate:    joining,
		Token:          token,
		Status:         domain.OnboardingStatusInvited,
		CreatedBy:      actor.UserID,
	}
	if err := s.repo.Create(req); err != nil {
		return nil, err
	}

	publishMail(s.producer, dto.MailEvent{
		Event: dto.EventOnboardingInvite,
		To:    email,
		Data: map[string]string{
			"name":     name,
			"position": req.Position,
			"link":     s.onboardingLink(token),
		},
	})
	return req, nil
}

func (s *onboardingService) onboardingLink(token string) string {
	return s.baseURL + "/onboarding?token=" + token
}

// fetchByToken re-validates the candidate's only credential on every
// call: unknown token, expired invite and terminal statuses all fail.
func (s *onboardingService) fetchByToken(token string) (*domain.OnboardingRequest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenNotFound
	}

	req, err := s.repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if s.now().After(req.CreatedAt.Add(domain.OnboardingTokenTTL)) {
		return nil, ErrTokenExpired
	}
	if req.Status == domain.OnboardingStatusApproved || req.Status == domain.OnboardingStatusRejected {
		return nil, ErrOnboardingCompleted
	}
	return req, nil
}

func (s *onboardingService) ValidateToken(token string) (*domain.OnboardingRequest, error) {
	return s.fetchByToken(token)
}

// SavePersonalInfo merges step 1. PAN and Aadhaar must not appear on
// any other onboarding; resubmitting the same values on this record is
// allowed.
func (s *onboardingService) SavePersonalInfo(token string, input dto.PersonalInfoRequest) (int, error) {
	req, err := s.fetchByToken(token)
	if err != nil {
		return 0, err
	}

	pan := strings.ToUpper(strings.TrimSpace(input.PANNumber))
	aadhaar := strings.ReplaceAll(strings.TrimSpace(input.AadhaarNumber), " ", "")
	if input.FullName == "" || pan == "" || aadhaar == "" {
		return 0, validationf("full_name, pan_number and aadhaar_number are required")
	}

	if dup, err := s.repo.ExistsOtherWithPAN(pan, req.ID); err != nil {
		return 0, err
	} else if dup {
		return 0, ErrDuplicatePAN
	}
	if dup, err := s.repo.ExistsOtherWithAadhaar(aadhaar, req.ID); err != nil {
		return 0, err
	} else if dup {
		return 0, ErrDuplicateAadhaar
	}

	info := domain.PersonalInfo{
		FullName:      strings.TrimSpace(input.FullName),
		DOB:           strings.TrimSpace(input.DOB),
		ContactNumber: strings.TrimSpace(input.ContactNumber),
		Address:       strings.TrimSpace(input.Address),
		City:          strings.TrimSpace(input.City),
		State:         strings.TrimSpace(input.State),
		Pincode:       strings.TrimSpace(input.Pincode),
	}
	blob, err := domain.NewJSONB(info)
	if err != nil {
		return 0, err
	}

	req.PersonalInfo = blob
	req.PAN = pan
	req.Aadhaar = aadhaar
	req.RaiseStep(1)

	if err := s.repo.Save(req); err != nil {
		return 0, err
	}
	return req.StepCompleted, nil
}

// SaveBankInfo encrypts the account number before it is persisted;
// the IFSC code stays plaintext.
func (s *onboardingService) SaveBankInfo(token string, input dto.BankInfoRequest) (int, error) {
	req, err := s.fetchByToken(token)
	if err != nil {
		return 0, err
	}

	account := strings.TrimSpace(input.AccountNumber)
	ifsc := strings.ToUpper(strings.TrimSpace(input.IFSCCode))
	if account == "" || ifsc == "" {
		return 0, validationf("account_number and ifsc_code are required")
	}

	encrypted, err := s.cipher.Encrypt(account)
	if err != nil {
		return 0, err
	}

	info := domain.BankInfo{
		AccountNumber: encrypted,
		IFSC:          ifsc,
		BankName:      strings.TrimSpace(input.BankName),
		BranchName:    strings.TrimSpace(input.BranchName),
	}
	blob, err := domain.NewJSONB(info)
	if err != nil {
		return 0, err
	}

	req.BankInfo = blob
	req.RaiseStep(2)

	if err := s.repo.Save(req); err != nil {
		return 0, err
	}
	return req.StepCompleted, nil
}

// UploadDocuments normalizes each file, pushes it to storage and
// merges the doc_type -> URL mapping onto the record.
func (s *onboardingService) UploadDocuments(ctx context.Context, token string, files []dto.DocumentFile) (int, map[string]string, error) {
	req, err := s.fetchByToken(token)
	if err != nil {
		return 0, nil, err
	}
	if len(files) == 0 {
		return 0, nil, validationf("at least one document is required")
	}

	docs := map[string]string{}
	if len(req.Documents) > 0 {
		if err := json.Unmarshal(req.Documents, &docs); err != nil {
			log.Printf("onboarding %d: reset unreadable documents blob: %v", req.ID, err)
			docs = map[string]string{}
		}
	}

	for i, f := range files {
		docType := strings.ToLower(strings.TrimSpace(f.DocType))
		if docType == "" {
			return 0, nil, validationf("document #%d is missing doc_type", i+1)
		}
		if len(f.Bytes) == 0 {
			return 0, nil, validationf("document #%d is empty", i+1)
		}

		norm, err := utils.NormalizeToJPG(f.Bytes, documentMaxWidth, documentQuality)
		if err != nil {
			return 0, nil, fmt.Errorf("normalize document #%d failed: %w", i+1, err)
		}

		name := fmt.Sprintf("%s-%s", docType, uuid.NewString())
		url, err := s.uploader.UploadBytes(ctx, "workzen/onboarding", name, norm)
		if err != nil {
			return 0, nil, fmt.Errorf("upload document #%d failed: %w", i+1, err)
		}
		docs[docType] = url
	}

	blob, err := domain.NewJSONB(docs)
	if err != nil {
		return 0, nil, err
	}
	req.Documents = blob
	req.RaiseStep(3)

	if err := s.repo.Save(req); err != nil {
		return 0, nil, err
	}
	return req.StepCompleted, docs, nil
}

// ExtractDocument runs OCR over an already-uploaded document and
// pattern-matches the fields HR cares about. The result is advisory
// and is never written back into the record.
func (s *onboardingService) ExtractDocument(ctx context.Context, onboardingID uint, docType string) (*dto.OCRFields, error) {
	if s.ocr == nil {
		return nil, errors.New("ocr is not configured")
	}

	req, err := s.repo.FindByID(onboardingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	docs := map[string]string{}
	if len(req.Documents) > 0 {
		if err := json.Unmarshal(req.Documents, &docs); err != nil {
			return nil, errors.New("documents blob is unreadable")
		}
	}
	docType = strings.ToLower(strings.TrimSpace(docType))
	url, ok := docs[docType]
	if !ok {
		return nil, fmt.Errorf("no %s document uploaded", docType)
	}

	text, err := s.ocr.ExtractText(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	fields := ExtractDocumentFields(docType, text)
	return &fields, nil
}

// Submit moves the record into the review queue once both structured
// sections and both identity numbers are present.
func (s *onboardingService) Submit(token string) error {
	req, err := s.fetchByToken(token)
	if err != nil {
		return err
	}

	if len(req.PersonalInfo) == 0 || len(req.BankInfo) == 0 || req.PAN == "" || req.Aadhaar == "" {
		return ErrStepsIncomplete
	}

	now := s.now()
	req.Status = domain.OnboardingStatusPendingReview
	req.StepCompleted = 4
	req.SubmittedAt = &now
	return s.repo.Save(req)
}

func (s *onboardingService) PendingReviews(limit, offset int) ([]domain.OnboardingRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByStatus(domain.OnboardingStatusPendingReview, limit, offset)
}

// Approve provisions the account: employee id allocation, a generated
// temporary password, a User row and an Employee row created together
// with the status flip in a single transaction.
func (s *onboardingService) Approve(actor dto.AuthClaims, onboardingID uint) (string, bool, error) {
	req, err := s.repo.FindByID(onboardingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, ErrTokenNotFound
		}
		return "", false, err
	}
	if req.Status == domain.OnboardingStatusApproved {
		return "", false, ErrAlreadyApproved
	}

	if existing, err := s.userRepo.FindUserByEmail(req.CandidateEmail); err == nil && existing != nil && existing.ID != 0 {
		return "", false, ErrEmailExists
	}

	employeeID, err := s.allocator.Allocate()
	if err != nil {
		return "", false, err
	}

	tempPassword, err := utils.TempPassword()
	if err != nil {
		return "", false, err
	}
	hashed, err := s.auth.HashPassword(tempPassword)
	if err != nil {
		return "", false, err
	}

	var personal domain.PersonalInfo
	if len(req.PersonalInfo) > 0 {
		_ = json.Unmarshal(req.PersonalInfo, &personal)
	}
	fullName := personal.FullName
	if strings.TrimSpace(fullName) == "" {
		fullName = req.CandidateName
	}
	firstName, lastName := helper.SplitFullName(fullName)

	var bank domain.BankInfo
	if len(req.BankInfo) > 0 {
		_ = json.Unmarshal(req.BankInfo, &bank)
	}

	encPAN, err := s.cipher.Encrypt(req.PAN)
	if err != nil {
		return "", false, err
	}
	encAadhaar, err := s.cipher.Encrypt(req.Aadhaar)
	if err != nil {
		return "", false, err
	}
	encIFSC, err := s.cipher.Encrypt(bank.IFSC)
	if err != nil {
		return "", false, err
	}

	user := &domain.User{
		Email:         req.CandidateEmail,
		PasswordHash:  hashed,
		FullName:      fullName,
		Role:          domain.RoleEmployee,
		IsActive:      true,
		EmailVerified: true,
	}
	emp := &domain.Employee{
		EmployeeID:  employeeID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       req.CandidateEmail,
		Phone:       personal.ContactNumber,
		Department:  req.Department,
		Position:    req.Position,
		JoiningDate: req.JoiningDate,
		PAN:         encPAN,
		Aadhaar:     encAadhaar,
		IFSC:        encIFSC,
		// the account number is already a cipher token on the record
		BankAccountNumber: bank.AccountNumber,
		Status:            domain.EmployeeStatusActive,
	}

	now := s.now()
	req.Status = domain.OnboardingStatusApproved
	req.ApprovedBy = &actor.UserID
	req.ApprovedAt = &now

	if err := s.repo.Approve(req, user, emp); err != nil {
		// a user row can appear between the pre-check and the insert
		if helper.IsUniqueViolation(err, "") {
			return "", false, ErrEmailExists
		}
		return "", false, err
	}

	sent := publishMail(s.producer, dto.MailEvent{
		Event: dto.EventOnboardingApproved,
		To:    req.CandidateEmail,
		Data: map[string]string{
			"name":        fullName,
			"employee_id": employeeID,
			"email":       req.CandidateEmail,
			"password":    tempPassword,
			"link":        s.baseURL + "/login",
		},
	})
	return employeeID, sent, nil
}

// RequestChanges re-opens the token link for the candidate with the
// reviewer's comments attached.
func (s *onboardingService) RequestChanges(actor dto.AuthClaims, onboardingID uint, input dto.RequestChangesRequest) error {
	req, err := s.repo.FindByID(onboardingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if req.Status == domain.OnboardingStatusApproved || req.Status == domain.OnboardingStatusRejected {
		return ErrOnboardingCompleted
	}

	req.Status = domain.OnboardingStatusChangesRequested
	req.ReviewComments = strings.TrimSpace(input.Comments)
	req.FieldsToChange = strings.TrimSpace(input.FieldsToChange)
	if err := s.repo.Save(req); err != nil {
		return err
	}

	publishMail(s.producer, dto.MailEvent{
		Event: dto.EventOnboardingChanges,
		To:    req.CandidateEmail,
		Data: map[string]string{
			"name":     req.CandidateName,
			"comments": req.ReviewComments,
			"link":     s.onboardingLink(req.Token),
		},
	})
	return nil
}

func (s *onboardingService) Reject(actor dto.AuthClaims, onboardingID uint, input dto.RejectRequest) error {
	req, err := s.repo.FindByID(onboardingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if req.Status == domain.OnboardingStatusApproved || req.Status == domain.OnboardingStatusRejected {
		return ErrOnboardingCompleted
	}

	now := s.now()
	req.Status = domain.OnboardingStatusRejected
	req.RejectionReason = strings.TrimSpace(input.Reason)
	req.RejectedBy = &actor.UserID
	req.RejectedAt = &now
	if err := s.repo.Save(req); err != nil {
		return err
	}

	publishMail(s.producer, dto.MailEvent{
		Event: dto.EventOnboardingRejected,
		To:    req.CandidateEmail,
		Data: map[string]string{
			"name":   req.CandidateName,
			"reason": req.RejectionReason,
		},
	})
	return nil
}

// GetDetails is the candidate's own read model. The bank account
// number is decrypted and immediately re-masked; plaintext never
// leaves this method.
func (s *onboardingService) GetDetails(token string) (*dto.OnboardingDetails, error) {
	req, err := s.fetchByToken(token)
	if err != nil {
		return nil, err
	}

	details := &dto.OnboardingDetails{
		ID:             req.ID,
		CandidateEmail: req.CandidateEmail,
		CandidateName:  req.CandidateName,
		Department:     req.Department,
		Position:       req.Position,
		JoiningDate:    req.JoiningDate,
		Status:         string(req.Status),
		StepCompleted:  req.StepCompleted,
		PAN:            req.PAN,
		Aadhaar:        req.Aadhaar,
		ReviewComments: req.ReviewComments,
		FieldsToChange: req.FieldsToChange,
	}

	if len(req.PersonalInfo) > 0 {
		var personal domain.PersonalInfo
		if json.Unmarshal(req.PersonalInfo, &personal) == nil {
			details.PersonalInfo = personal
		}
	}
	if len(req.BankInfo) > 0 {
		var bank domain.BankInfo
		if json.Unmarshal(req.BankInfo, &bank) == nil {
			plain, err := s.cipher.Decrypt(bank.AccountNumber)
			if err != nil {
				return nil, err
			}
			details.BankAccount = crypto.MaskAccountNumber(plain)
			details.IFSC = bank.IFSC
		}
	}
	if len(req.Documents) > 0 {
		docs := map[string]string{}
		if json.Unmarshal(req.Documents, &docs) == nil {
			details.Documents = docs
		}
	}
	return details, nil
}
