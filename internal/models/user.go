package models

import (
	"time"
)

// User roles
const (
	RoleStandard = "standard"
	RoleBusiness = "business"
)

// User represents a user in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Phone        string    `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;default:standard" json:"role"`
	ReferralCode string    `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	ReferredBy   *uint     `gorm:"index" json:"referred_by,omitempty"`
	Referrer     *User     `gorm:"foreignKey:ReferredBy" json:"referrer,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsBusiness reports whether the user can author campaigns
func (u *User) IsBusiness() bool {
	return u.Role == RoleBusiness
}
