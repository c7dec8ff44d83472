package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign types — a closed set; validation dispatches over these variants
const (
	CampaignTypeClick    = "click"
	CampaignTypeView     = "view"
	CampaignTypeShare    = "share"
	CampaignTypeInstall  = "install"
	CampaignTypePurchase = "purchase"
)

// Campaign statuses
const (
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
	CampaignStatusExpired   = "expired"
)

// Participation statuses
const (
	ParticipationInProgress = "in_progress"
	ParticipationCompleted  = "completed"
	ParticipationRejected   = "rejected"
)

// CampaignRequirements is the task criteria for a campaign, keyed by the
// campaign type. Only the fields relevant to the type are set.
type CampaignRequirements struct {
	MinClicks            int             `json:"min_clicks,omitempty"`
	ViewDuration         int             `json:"view_duration,omitempty"`
	Platforms            []string        `json:"platforms,omitempty"`
	MinFollowers         int             `json:"min_followers,omitempty"`
	AppID                string          `json:"app_id,omitempty"`
	RegistrationRequired bool            `json:"registration_required,omitempty"`
	URL                  string          `json:"url,omitempty"`
	MinPurchase          decimal.Decimal `json:"min_purchase,omitempty"`
}

// CompletionData is the evidence a user submits when completing a campaign
// task. Like the requirements, only the type-relevant fields are set.
type CompletionData struct {
	Clicks     int             `json:"clicks,omitempty"`
	Duration   int             `json:"duration,omitempty"`
	Platform   string          `json:"platform,omitempty"`
	Followers  int             `json:"followers,omitempty"`
	AppID      string          `json:"app_id,omitempty"`
	Registered bool            `json:"registered,omitempty"`
	OrderRef   string          `json:"order_ref,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
}

// Campaign is a sponsor-funded task with a fixed reward. The core reads it and
// updates current_participants/spent_budget on successful participation.
type Campaign struct {
	ID                  uint                  `gorm:"primaryKey" json:"id"`
	BusinessID          uint                  `gorm:"not null;index" json:"business_id"`
	Business            *User                 `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Title               string                `gorm:"size:200;not null" json:"title"`
	Description         string                `gorm:"type:text" json:"description"`
	CampaignType        string                `gorm:"size:20;not null;index" json:"campaign_type"`
	Requirements        *CampaignRequirements `gorm:"serializer:json" json:"requirements,omitempty"`
	RewardSOD           decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"reward_sod"`
	RewardToman         decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"reward_toman"`
	TotalBudget         decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"total_budget"`
	SpentBudget         decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"spent_budget"`
	MaxParticipants     *int                  `json:"max_participants,omitempty"`
	CurrentParticipants int                   `gorm:"not null;default:0" json:"current_participants"`
	StartDate           time.Time             `gorm:"not null" json:"start_date"`
	EndDate             time.Time             `gorm:"not null" json:"end_date"`
	Status              string                `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// TableName specifies the table name for Campaign model
func (Campaign) TableName() string {
	return "business_campaigns"
}

// RewardCost is what one completed participation costs the campaign's budget:
// the SOD and Toman rewards combined.
func (c *Campaign) RewardCost() decimal.Decimal {
	return c.RewardSOD.Add(c.RewardToman)
}

// CampaignParticipation is one user's attempt at one campaign. The
// (campaign_id, user_id) pair is unique at the data layer so at most one row
// can ever exist per pair, even under concurrent duplicate requests.
type CampaignParticipation struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	CampaignID        uint            `gorm:"not null;uniqueIndex:idx_campaign_user" json:"campaign_id"`
	Campaign          *Campaign       `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	UserID            uint            `gorm:"not null;uniqueIndex:idx_campaign_user;index" json:"user_id"`
	User              *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParticipationType string          `gorm:"size:20;not null" json:"participation_type"`
	CompletionData    *CompletionData `gorm:"serializer:json" json:"completion_data,omitempty"`
	Status            string          `gorm:"size:20;not null;default:in_progress;index" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
}

// TableName specifies the table name for CampaignParticipation model
func (CampaignParticipation) TableName() string {
	return "campaign_participations"
}
