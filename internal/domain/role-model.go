package domain

import "gorm.io/gorm"

// Role is a lookup row; users carry the role code directly on their
// own row. Seeded at startup with the five WorkZen roles.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	gorm.Model
}
