package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)

// Employee is the HR record, distinct from the User login identity.
// PAN, Aadhaar, IFSC and the bank account number are stored encrypted
// (pkg/crypto FieldCipher tokens), never as plaintext.
type Employee struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     *uint  `gorm:"index" json:"user_id,omitempty"`
	EmployeeID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"employee_id"`
	FirstName  string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string `gorm:"type:varchar(100)" json:"last_name"`
	Email      string `gorm:"type:varchar(255);index;not null" json:"email"`
	Phone      string `gorm:"type:varchar(20)" json:"phone"`
	Department string `gorm:"type:varchar(100)" json:"department"`
	Position   string `gorm:"type:varchar(100)" json:"position"`

	JoiningDate time.Time `gorm:"type:date" json:"joining_date"`

	PAN               string `gorm:"type:text" json:"-"`
	Aadhaar           string `gorm:"type:text" json:"-"`
	IFSC              string `gorm:"type:text" json:"-"`
	BankAccountNumber string `gorm:"type:text" json:"-"`

	Salary float64 `json:"salary,omitempty"`
	Status string  `gorm:"type:varchar(20);not null;default:active" json:"status"`
	gorm.Model
}
