package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifies one of the three wallet balances
type Currency string

const (
	CurrencySOD    Currency = "sod"
	CurrencyToman  Currency = "toman"
	CurrencyStable Currency = "stable"
)

// BalanceColumn maps a currency to its wallet column. Every balance write goes
// through this mapping so a delta can never target an arbitrary column.
func (c Currency) BalanceColumn() (string, error) {
	switch c {
	case CurrencySOD:
		return "sod_balance", nil
	case CurrencyToman:
		return "toman_balance", nil
	case CurrencyStable:
		return "stable_balance", nil
	default:
		return "", fmt.Errorf("unknown currency: %s", c)
	}
}

// Wallet holds a user's balances. Balances never go negative; all changes are
// relative deltas applied at the store, never absolute values from stale reads.
type Wallet struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SodBalance    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"sod_balance"`
	TomanBalance  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"toman_balance"`
	StableBalance decimal.Decimal `gorm:"type:decimal(18,8);not null;default:0" json:"stable_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Wallet model
func (Wallet) TableName() string {
	return "user_wallets"
}

// Balance returns the balance for a currency
func (w *Wallet) Balance(c Currency) decimal.Decimal {
	switch c {
	case CurrencySOD:
		return w.SodBalance
	case CurrencyToman:
		return w.TomanBalance
	case CurrencyStable:
		return w.StableBalance
	}
	return decimal.Zero
}
