package domain

import (
	"time"

	"gorm.io/gorm"
)

// OTPMaxAttempts is how many wrong guesses a single code survives.
const OTPMaxAttempts = 5

// OTPTTL is the validity window of an issued code.
const OTPTTL = 10 * time.Minute

// EmailOTP is an ephemeral email-verification code. Only the bcrypt
// hash is authoritative; OTPPlain is filled outside prod for debugging.
type EmailOTP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);index;not null" json:"email"`
	OTPHash   string    `gorm:"not null" json:"-"`
	OTPPlain  string    `gorm:"type:varchar(10)" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`
	gorm.Model
}
