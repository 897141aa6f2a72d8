package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen/hr-service/internal/domain"
	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/pkg/crypto"
)

type onboardingFixture struct {
	svc      *onboardingService
	repo     *fakeOnboardingRepo
	users    *fakeUserRepo
	emps     *fakeEmployeeRepo
	producer *fakeProducer
	uploader *fakeUploader
	cipher   *crypto.FieldCipher
}

func newOnboardingFixture(t *testing.T) *onboardingFixture {
	t.Helper()
	users := newFakeUserRepo()
	emps := newFakeEmployeeRepo()
	repo := newFakeOnboardingRepo(users, emps)
	producer := &fakeProducer{}
	uploader := &fakeUploader{}

	cipher, err := crypto.NewFieldCipher("test-secret")
	require.NoError(t, err)

	svc := NewOnboardingService(
		repo,
		users,
		NewEmployeeIDAllocator(emps, "WZ"),
		cipher,
		uploader,
		nil,
		producer,
		testAuth(),
		"https://app.workzen.io",
	).(*onboardingService)

	return &onboardingFixture{
		svc:      svc,
		repo:     repo,
		users:    users,
		emps:     emps,
		producer: producer,
		uploader: uploader,
		cipher:   cipher,
	}
}

func hrActor() dto.AuthClaims {
	return dto.AuthClaims{UserID: 7, Email: "hr@workzen.io", Role: domain.RoleHROfficer}
}

func invite(t *testing.T, f *onboardingFixture, email string) *domain.OnboardingRequest {
	t.Helper()
	req, err := f.svc.Invite(hrActor(), dto.InviteRequest{
		CandidateEmail: email,
		CandidateName:  "Asha Verma",
		Department:     "engineering",
		Position:       "backend engineer",
		JoiningDate:    "2026-10-01",
	})
	require.NoError(t, err)
	return req
}

func personalInfo(pan, aadhaar string) dto.PersonalInfoRequest {
	return dto.PersonalInfoRequest{
		FullName:      "Asha Verma",
		DOB:           "1998-04-12",
		ContactNumber: "9876543210",
		Address:       "14 MG Road",
		City:          "Pune",
		State:         "MH",
		Pincode:       "411001",
		PANNumber:     pan,
		AadhaarNumber: aadhaar,
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestInviteIssuesTokenAndMail(t *testing.T) {
	f := newOnboardingFixture(t)
	req := invite(t, f, "asha@example.com")

	assert.Len(t, req.Token, 64) // 32 random bytes, hex
	assert.Equal(t, domain.OnboardingStatusInvited, req.Status)
	assert.Equal(t, uint(7), req.CreatedBy)

	require.Len(t, f.producer.events, 1)
	assert.Equal(t, dto.EventOnboardingInvite, f.producer.events[0].Key)
	assert.Contains(t, f.producer.events[0].Value, "/onboarding?token="+req.Token)
}

func TestInviteValidation(t *testing.T) {
	f := newOnboardingFixture(t)

	_, err := f.svc.Invite(hrActor(), dto.InviteRequest{CandidateEmail: "a@b.c"})
	assert.Error(t, err)

	_, err = f.svc.Invite(hrActor(), dto.InviteRequest{
		CandidateEmail: "a@b.c", CandidateName: "A", JoiningDate: "01-10-2026",
	})
	assert.Error(t, err)
}

func TestValidateTokenLifecycle(t *testing.T) {
	f := newOnboardingFixture(t)
	req := invite(t, f, "asha@example.com")

	_, err := f.svc.ValidateToken(req.Token)
	assert.NoError(t, err)

	_, err = f.svc.ValidateToken("no-such-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// just inside the window
	f.svc.now = fixedNow(req.CreatedAt.Add(domain.OnboardingTokenTTL - time.Second))
	_, err = f.svc.ValidateToken(req.Token)
	assert.NoError(t, err)

	// just past it
	f.svc.now = fixedNow(req.CreatedAt.Add(domain.OnboardingTokenTTL + time.Second))
	_, err = f.svc.ValidateToken(req.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestStepMonotonicity(t *testing.T) {
	f := newOnboardingFixture(t)
	req := invite(t, f, "asha@example.com")

	step, err := f.svc.SavePersonalInfo(req.Token, personalInfo("ABCDE1234F", "1234 5678 9012"))
	require.NoError(t, err)
	assert.Equal(t, 1, step)

	step, err = f.svc.SaveBankInfo(req.Token, dto.BankInfoRequest{
		AccountNumber: "123456789012",
		IFSCCode:      "hdfc0001234",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, step)

	step, _, err = f.svc.UploadDocuments(context.Background(), req.Token, []dto.DocumentFile{
		{DocType: "pan_card", Filename: "pan.png", Bytes: pngBytes(t)},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, step)

	// re-saving an earlier step must not roll the progress back
	step, err = f.svc.SavePersonalInfo(req.Token, personalInfo("ABCDE1234F", "123456789012"))
	require.NoError(t, err)
	assert.Equal(t, 3, step)
}

func TestSaveBankInfoEncryptsAccountNumber(t *testing.T) {
	f := newOnboardingFixture(t)
	req := invite(t, f, "asha@example.com")

	_, err := f.svc.SaveBankInfo(req.Token, dto.BankInfoRequest{
		AccountNumber: "123456789012",
		IFSCCode:      "HDFC0001234",
	})
	require.NoError(t, err)

	stored, err := f.repo.FindByToken(req.Token)
	require.NoError(t, err)
	assert.NotContains(t, string(stored.BankInfo), "123456789012")

	var bank domain.BankInfo
	require.NoError(t, json.Unmarshal(stored.BankInfo, &bank))
	plain, err := f.cipher.Decrypt(bank.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, "123456789012", plain)
	assert.Equal(t, "HDFC0001234", bank.IFSC)
}

func TestDuplicatePANAndAadhaar(t *testing.T) {
	f := newOnboardingFixture(t)
	first := invite(t, f, "asha@example.com")
	second := invite(t, f, "ravi@example.com")

	_, err := f.svc.SavePersonalInfo(first.Token, personalInfo("ABCDE1234F", "111122223333"))
	require.NoError(t, err)

	_, err = f.svc.SavePersonalInfo(second.Token, personalInfo("abcde1234f", "444455556666"))
	assert.ErrorIs(t, err, ErrDuplicatePAN)

	_, err = f.svc.SavePersonalInfo(second.Token, personalInfo("ZZZZZ9999Z", "1111 2222 3333"))
	assert.ErrorIs(t, err, ErrDuplicateAadhaar)

	// resubmitting the same values on the owning record is allowed
	_, err = f.svc.SavePersonalInfo(first.Token, personalInfo("ABCDE1234F", "111122223333"))
	assert.NoError(t, err)
}

func TestSubmitRequiresCompletedSteps(t *testing.T) {
	f := newOnboardingFixture(t)
	req := invite(t, f, "asha@example.com")

	assert.ErrorIs(t, f.svc.Submit(req.Token), ErrStepsIncomplete)

	_, err := f.svc.SavePersonalInfo(req.Token, personalInfo("ABCDE1234F", "111122223333"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Submit(req.Token), ErrStepsIncomplete)

	_, err = f.svc.SaveBankInfo(req.Token, dto.BankInfoRequest{
		AccountNumber: "123456789012", IFSCCode: "HDFC0001234",
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(req.Token))

	stored, err := f.repo.FindByToken(req.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.OnboardingStatusPendingReview, stored.Status)
	assert.Equal(t, 4, stored.StepCompleted)
	assert.NotNil(t, stored.SubmittedAt)
}

func submitComplete(t *testing.T, f *onboardingFixture, email string) *domain.OnboardingRequest {
	t.Helper()
	req := invite(t, f, email)
	_, err := f.svc.SavePersonalInfo(req.Token, personalInfo("ABCDE1234F", "111122223333"))
	require.NoError(t, err)
	_, err = f.svc.SaveBankInfo(req.Token, dto.BankInfoRequest{
		AccountNumber: "123456789012", IFSCCode: "HDFC0001234",
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(req.Token))
	stored, err := f.repo.FindByToken(req.Token)
	require.NoError(t, err)
	return stored
}

func TestApproveProvisionsAccount(t *testing.T) {
	f := newOnboardingFixture(t)
	req := submitComplete(t, f, "asha@example.com")

	employeeID, sent, err := f.svc.Approve(hrActor(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("WZ%d0001", time.Now().Year()), employeeID)
	assert.True(t, sent)

	user, err := f.users.FindUserByEmail("asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, user.EmailVerified)

	emp, err := f.emps.FindByEmployeeID(employeeID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", emp.FirstName)
	assert.Equal(t, "Verma", emp.LastName)
	require.NotNil(t, emp.UserID)
	assert.Equal(t, user.ID, *emp.UserID)

	// PII columns hold cipher tokens, not plaintext
	assert.NotEqual(t, "ABCDE1234F", emp.PAN)
	pan, err := f.cipher.Decrypt(emp.PAN)
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", pan)
	account, err := f.cipher.Decrypt(emp.BankAccountNumber)
	require.NoError(t, err)
	assert.Equal(t, "123456789012", account)

	// the approval mail carries the temporary password
	last := f.producer.events[len(f.producer.events)-1]
	assert.Equal(t, dto.EventOnboardingApproved, last.Key)
	assert.Contains(t, last.Value, employeeID)
	assert.Contains(t, last.Value, "A1@")

	stored, err := f.repo.FindByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OnboardingStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, uint(7), *stored.ApprovedBy)
}

func TestApproveIsNotRepeatable(t *testing.T) {
	f := newOnboardingFixture(t)
	req := submitComplete(t, f, "asha@example.com")

	_, _, err := f.svc.Approve(hrActor(), req.ID)
	require.NoError(t, err)

	_, _, err = f.svc.Approve(hrActor(), req.ID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Len(t, f.emps.employees, 1)
}

func TestApproveRefusesExistingUser(t *testing.T) {
	f := newOnboardingFixture(t)
	req := submitComplete(t, f, "asha@example.com")
	_, err := f.users.CreateUser(&domain.User{Email: "asha@example.com"})
	require.NoError(t, err)

	_, _, err = f.svc.Approve(hrActor(), req.ID)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestApproveMapsUniqueRaceToEmailExists(t *testing.T) {
	f := newOnboardingFixture(t)
	req := submitComplete(t, f, "asha@example.com")

	// a user row inserted after the pre-check makes the transaction
	// trip the unique index instead
	f.repo.approveErr = &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}

	_, _, err := f.svc.Approve(hrActor(), req.ID)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRequestChangesReopensLink(t *testing.T) {
	f := newOnboardingFixture(t)
	req := submitComplete(t, f, "asha@example.com")

	err := f.svc.RequestChanges(hrActor(), req.ID, dto.RequestChangesRequest{
		Comments:       "pan photo is blurry",
		FieldsToChange: "documents",
	})
	require.NoError(t, err)

	stored, err := f.repo.FindByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OnboardingStatusChangesRequested, stored.Status)
	assert.Equal(t, "pan photo is blurry", stored.ReviewComments)

	// the token still works so the candidate can fix things
	_, err = f.svc.ValidateToken(req.Token)
	assert.NoError(t, err)

	last := f.producer.events[len(f.producer.events)-1]
	assert.Equal(t, dto.EventOnboardingChanges, last.Key)
}

func TestRejectClosesLink(t *testing.T) {
	f := newOnboardingFixture(t)
	req := submitComplete(t, f, "asha@example.com")

	err := f.svc.Reject(hrActor(), req.ID, dto.RejectRequest{Reason: "background check failed"})
	require.NoError(t, err)

	_, err = f.svc.ValidateToken(req.Token)
	assert.ErrorIs(t, err, ErrOnboardingCompleted)

	err = f.svc.Reject(hrActor(), req.ID, dto.RejectRequest{})
	assert.ErrorIs(t, err, ErrOnboardingCompleted)
}

func TestGetDetailsMasksBankAccount(t *testing.T) {
	f := newOnboardingFixture(t)
	req := submitComplete(t, f, "asha@example.com")

	details, err := f.svc.GetDetails(req.Token)
	require.NoError(t, err)
	assert.Equal(t, "XXXX XXXX 9012", details.BankAccount)
	assert.Equal(t, "HDFC0001234", details.IFSC)
	assert.Equal(t, 4, details.StepCompleted)
}

func TestUploadDocumentsMergesByType(t *testing.T) {
	f := newOnboardingFixture(t)
	req := invite(t, f, "asha@example.com")

	_, docs, err := f.svc.UploadDocuments(context.Background(), req.Token, []dto.DocumentFile{
		{DocType: "pan_card", Filename: "pan.png", Bytes: pngBytes(t)},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	// a second upload keeps the first document and replaces same-type
	_, docs, err = f.svc.UploadDocuments(context.Background(), req.Token, []dto.DocumentFile{
		{DocType: "aadhaar_card", Filename: "aadhaar.png", Bytes: pngBytes(t)},
		{DocType: "pan_card", Filename: "pan-v2.png", Bytes: pngBytes(t)},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, 3, f.uploader.uploads)
	for docType, url := range docs {
		assert.True(t, strings.HasPrefix(url, "https://cdn.test/workzen/onboarding/"+docType+"-"))
	}
}

func TestUploadDocumentsRejectsBadInput(t *testing.T) {
	f := newOnboardingFixture(t)
	req := invite(t, f, "asha@example.com")

	var ve *ValidationError

	_, _, err := f.svc.UploadDocuments(context.Background(), req.Token, nil)
	assert.ErrorAs(t, err, &ve)

	_, _, err = f.svc.UploadDocuments(context.Background(), req.Token, []dto.DocumentFile{
		{DocType: "", Filename: "pan.png", Bytes: pngBytes(t)},
	})
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "doc_type")

	_, _, err = f.svc.UploadDocuments(context.Background(), req.Token, []dto.DocumentFile{
		{DocType: "pan_card", Filename: "pan.png"},
	})
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, f.uploader.uploads)
}

func TestExtractDocumentUsesStoredURL(t *testing.T) {
	f := newOnboardingFixture(t)
	f.svc.ocr = &fakeExtractor{text: "INCOME TAX DEPARTMENT GOVT OF INDIA\nAsha Verma\nABCDE1234F"}
	req := invite(t, f, "asha@example.com")

	_, _, err := f.svc.UploadDocuments(context.Background(), req.Token, []dto.DocumentFile{
		{DocType: "pan_card", Filename: "pan.png", Bytes: pngBytes(t)},
	})
	require.NoError(t, err)

	fields, err := f.svc.ExtractDocument(context.Background(), req.ID, "pan_card")
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", fields.PAN)
	assert.Equal(t, "Asha Verma", fields.Name)

	_, err = f.svc.ExtractDocument(context.Background(), req.ID, "aadhaar_card")
	assert.Error(t, err)
}
