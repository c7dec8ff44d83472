package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Boost constants: a boost costs 5000 SOD, triples mining awards, and runs
// for 30 seconds from activation.
const (
	BoostMultiplier = 3
	BoostDuration   = 30 * time.Second
)

// BoostCost is the SOD price of one boost activation
var BoostCost = decimal.NewFromInt(5000)

// DefaultMiningPower is the base award per mining action for new accounts
const DefaultMiningPower = 5

// MiningStats tracks per-user mining progress. TodayEarned resets at the
// calendar-day boundary; TotalMined only ever grows.
type MiningStats struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MiningPower  int64           `gorm:"not null;default:5" json:"mining_power"`
	TodayEarned  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"today_earned"`
	TotalMined   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_mined"`
	LastMineTime *time.Time      `json:"last_mine_time,omitempty"`
	BoostEndTime *time.Time      `json:"boost_end_time,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for MiningStats model
func (MiningStats) TableName() string {
	return "mining_stats"
}

// BoostState is derived from the stored boost end time at read time. Expiry is
// purely a function of the clock; no timer needs to fire for a boost to end.
type BoostState struct {
	Active     bool       `json:"active"`
	Multiplier int64      `json:"multiplier"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

// BoostStateAt computes the boost state as of now
func (m *MiningStats) BoostStateAt(now time.Time) BoostState {
	if m.BoostEndTime != nil && now.Before(*m.BoostEndTime) {
		return BoostState{Active: true, Multiplier: BoostMultiplier, EndTime: m.BoostEndTime}
	}
	return BoostState{Active: false, Multiplier: 1}
}
