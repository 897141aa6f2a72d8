package dto

import "time"

type InviteRequest struct {
	CandidateEmail string `json:"candidate_email"`
	CandidateName  string `json:"candidate_name"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	JoiningDate    string `json:"joining_date"`
}

type PersonalInfoRequest struct {
	FullName      string `json:"full_name"`
	DOB           string `json:"dob"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	PANNumber     string `json:"pan_number"`
	AadhaarNumber string `json:"aadhaar_number"`
}

type BankInfoRequest struct {
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name,omitempty"`
	BranchName    string `json:"branch_name,omitempty"`
}

// DocumentFile is one multipart upload, already read into memory by
// the handler within the configured size limit.
type DocumentFile struct {
	DocType  string
	Filename string
	Bytes    []byte
}

type StepResponse struct {
	Message       string `json:"message"`
	StepCompleted int    `json:"step_completed"`
}

type ValidateTokenResponse struct {
	Valid      bool   `json:"valid"`
	Candidate  string `json:"candidate_name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Status     string `json:"status"`
}

// OCRFields is the advisory extraction shown to HR during review; it
// is never written back into the onboarding record.
type OCRFields struct {
	PAN     string `json:"pan,omitempty"`
	Aadhaar string `json:"aadhaar,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	RawText string `json:"raw_text,omitempty"`
}

type ApproveResponse struct {
	Message    string `json:"message"`
	EmployeeID string `json:"employee_id"`
	EmailSent  bool   `json:"email_sent"`
}

type RequestChangesRequest struct {
	Comments       string `json:"comments"`
	FieldsToChange string `json:"fields_to_change"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// OnboardingDetails is the token-authenticated read model. The bank
// account number is decrypted and immediately re-masked before it
// crosses this boundary.
type OnboardingDetails struct {
	ID             uint              `json:"id"`
	CandidateEmail string            `json:"candidate_email"`
	CandidateName  string            `json:"candidate_name"`
	Department     string            `json:"department"`
	Position       string            `json:"position"`
	JoiningDate    time.Time         `json:"joining_date"`
	Status         string            `json:"status"`
	StepCompleted  int               `json:"step_completed"`
	PersonalInfo   interface{}       `json:"personal_info,omitempty"`
	PAN            string            `json:"pan,omitempty"`
	Aadhaar        string            `json:"aadhaar,omitempty"`
	BankAccount    string            `json:"bank_account,omitempty"`
	IFSC           string            `json:"ifsc_code,omitempty"`
	Documents      map[string]string `json:"documents,omitempty"`
	ReviewComments string            `json:"review_comments,omitempty"`
	FieldsToChange string            `json:"fields_to_change,omitempty"`
}
