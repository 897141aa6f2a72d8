package domain

import (
	"time"

	"gorm.io/gorm"
)

type OnboardingStatus string

const (
	OnboardingStatusInvited          OnboardingStatus = "invited"
	OnboardingStatusPendingReview    OnboardingStatus = "pending_review"
	OnboardingStatusApproved         OnboardingStatus = "approved"
	OnboardingStatusRejected         OnboardingStatus = "rejected"
	OnboardingStatusChangesRequested OnboardingStatus = "changes_requested"
)

// OnboardingTokenTTL is how long an invite link stays valid.
const OnboardingTokenTTL = 7 * 24 * time.Hour

// PersonalInfo is the structured blob the candidate fills in step 1.
// PAN and Aadhaar are additionally lifted into their own columns on
// OnboardingRequest so duplicates can be checked with a plain query.
type PersonalInfo struct {
	FullName      string `json:"full_name"`
	DOB           string `json:"dob"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
}

// BankInfo holds step 2. AccountNumber carries a FieldCipher token,
// IFSC stays plaintext.
type BankInfo struct {
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc_code"`
	BankName      string `json:"bank_name,omitempty"`
	BranchName    string `json:"branch_name,omitempty"`
}

// OnboardingRequest is one invited candidate. The token is the only
// credential the candidate ever holds; candidate_email is deliberately
// not unique because the same person may be re-invited.
type OnboardingRequest struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	CandidateEmail string `gorm:"type:varchar(255);index;not null" json:"candidate_email"`
	CandidateName  string `gorm:"type:varchar(255);not null" json:"candidate_name"`
	Department     string `gorm:"type:varchar(100)" json:"department"`
	Position       string `gorm:"type:varchar(100)" json:"position"`

	JoiningDate time.Time        `gorm:"type:date" json:"joining_date"`
	Token       string           `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	Status      OnboardingStatus `gorm:"type:varchar(20);not null;default:invited" json:"status"`

	PersonalInfo JSONB  `gorm:"type:jsonb" json:"personal_info,omitempty"`
	PAN          string `gorm:"type:varchar(10);index" json:"pan,omitempty"`
	Aadhaar      string `gorm:"type:varchar(12);index" json:"aadhaar,omitempty"`
	BankInfo     JSONB  `gorm:"type:jsonb" json:"bank_info,omitempty"`
	Documents    JSONB  `gorm:"type:jsonb" json:"documents,omitempty"`

	// StepCompleted is the highest step the candidate has reached
	// (0 none, 1 personal, 2 bank, 3 documents, 4 submitted). It never
	// decreases.
	StepCompleted int `gorm:"not null;default:0" json:"step_completed"`

	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	ApprovedBy       *uint      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	RejectedBy       *uint      `json:"rejected_by,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	EmployeeRecordID *uint      `json:"employee_record_id,omitempty"`

	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewComments  string `gorm:"type:text" json:"review_comments,omitempty"`
	FieldsToChange  string `gorm:"type:text" json:"fields_to_change,omitempty"`

	CreatedBy uint `json:"created_by"`
	gorm.Model
}

// RaiseStep lifts step_completed to at least step.
func (o *OnboardingRequest) RaiseStep(step int) {
	if step > o.StepCompleted {
		o.StepCompleted = step
	}
}
