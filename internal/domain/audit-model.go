package domain

import "time"

const (
	AuditOTPSent         = "OTP_SENT"
	AuditOTPVerified     = "OTP_VERIFIED"
	AuditOTPVerifyFailed = "OTP_VERIFY_FAILED"
	AuditOTPResent       = "OTP_RESENT"
)

// AuditLog is append-only; rows are never updated or deleted.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActorEmail string    `gorm:"type:varchar(255);index;not null" json:"actor_email"`
	Action     string    `gorm:"type:varchar(100);not null" json:"action"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	IPAddress  string    `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
