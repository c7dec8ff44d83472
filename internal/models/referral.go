package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral payouts: the referred user gets a SOD signup bonus, the referrer a
// Toman reward, each paid exactly once per referred registration.
var (
	ReferralSignupBonus = decimal.NewFromInt(500)
	ReferralReward      = decimal.NewFromInt(1000)
)

// Referral statuses
const (
	ReferralStatusRegistered = "registered"
)

// Referral links a referrer to a referred user. The unique index on
// referred_id means a user can be referred at most once, ever — this is the
// replay guard for the registration bonus.
type Referral struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReferrerID uint      `gorm:"not null;index" json:"referrer_id"`
	Referrer   *User     `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredID uint      `gorm:"uniqueIndex;not null" json:"referred_id"`
	Referred   *User     `gorm:"foreignKey:ReferredID" json:"referred,omitempty"`
	Status     string    `gorm:"size:20;not null;default:registered" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Referral model
func (Referral) TableName() string {
	return "referrals"
}
