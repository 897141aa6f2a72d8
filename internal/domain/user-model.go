package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin      = "admin"
	RoleHROfficer  = "hr_officer"
	RoleManager    = "manager"
	RoleEmployee   = "employee"
	RoleContractor = "contractor"
)

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `json:"-"`
	FullName         string     `gorm:"type:varchar(255)" json:"full_name"`
	Role             string     `gorm:"type:varchar(20);not null;default:employee" json:"role"`
	IsActive         bool       `gorm:"not null;default:true" json:"is_active"`
	EmailVerified    bool       `gorm:"not null;default:false" json:"email_verified"`
	ResetToken       string     `gorm:"index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	gorm.Model
}
