package dto

import "time"

type EmployeeCreateRequest struct {
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Department        string  `json:"department"`
	Position          string  `json:"position"`
	JoiningDate       string  `json:"joining_date"`
	PAN               string  `json:"pan"`
	Aadhaar           string  `json:"aadhaar"`
	IFSC              string  `json:"ifsc_code"`
	BankAccountNumber string  `json:"bank_account_number"`
	Salary            float64 `json:"salary"`
}

type EmployeeUpdateRequest struct {
	Phone      *string  `json:"phone,omitempty"`
	Department *string  `json:"department,omitempty"`
	Position   *string  `json:"position,omitempty"`
	Salary     *float64 `json:"salary,omitempty"`
	Status     *string  `json:"status,omitempty"`
}

// EmployeeResponse carries only masked PII.
type EmployeeResponse struct {
	ID          uint      `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Department  string    `json:"department"`
	Position    string    `json:"position"`
	JoiningDate time.Time `json:"joining_date"`
	PAN         string    `json:"pan,omitempty"`
	Aadhaar     string    `json:"aadhaar,omitempty"`
	BankAccount string    `json:"bank_account,omitempty"`
	Status      string    `json:"status"`
}

type UserCreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type UserUpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type SetUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}
