package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TxTypeMining         = "mining"
	TxTypeBoostPurchase  = "boost_purchase"
	TxTypeReferralBonus  = "referral_bonus"
	TxTypeReferralReward = "referral_reward"
	TxTypeCampaignReward = "campaign_reward"
)

// Transaction statuses
const (
	TxStatusCompleted = "completed"
	TxStatusPending   = "pending"
	TxStatusFailed    = "failed"
)

// Transaction is one immutable ledger entry. Rows are only ever appended;
// balances must always equal the sum of their completed transactions.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Reference   string          `gorm:"uniqueIndex;size:40;not null" json:"reference"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type        string          `gorm:"size:50;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,8);not null" json:"amount"`
	Currency    Currency        `gorm:"size:10;not null;index" json:"currency"`
	Description string          `gorm:"type:text" json:"description"`
	Status      string          `gorm:"size:20;not null;default:completed;index" json:"status"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
