package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sodtech/internal/cache"
	"sodtech/internal/models"
)

// CampaignService grants at-most-one participation per (user, campaign) pair
// and pays the campaign reward on verified completion. The unique index on
// the pair and the guarded counter updates are the concurrency control: two
// simultaneous duplicate requests can never both get a slot.
type CampaignService struct {
	db        *gorm.DB
	ledger    *LedgerService
	campaigns *cache.CampaignCache

	now func() time.Time
}

// NewCampaignService creates a new CampaignService. The cache may be nil.
func NewCampaignService(db *gorm.DB, ledger *LedgerService, campaigns *cache.CampaignCache) *CampaignService {
	return &CampaignService{
		db:        db,
		ledger:    ledger,
		campaigns: campaigns,
		now:       time.Now,
	}
}

// Participate enrolls a user into a campaign with an in_progress record.
// Preconditions are checked in order, each with its own failure kind, and the
// whole grant is one transaction.
func (s *CampaignService) Participate(userID, campaignID uint) (*models.CampaignParticipation, error) {
	var participation *models.CampaignParticipation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.Where("id = ?", campaignID).First(&campaign).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCampaignNotActive
			}
			return err
		}

		if campaign.Status != models.CampaignStatusActive {
			return ErrCampaignNotActive
		}

		now := s.now()
		if now.Before(campaign.StartDate) || now.After(campaign.EndDate) {
			return ErrCampaignWindowClosed
		}

		if campaign.SpentBudget.Add(campaign.RewardCost()).GreaterThan(campaign.TotalBudget) {
			return ErrBudgetExhausted
		}

		participation = &models.CampaignParticipation{
			CampaignID:        campaignID,
			UserID:            userID,
			ParticipationType: campaign.CampaignType,
			Status:            models.ParticipationInProgress,
		}

		// The composite unique index decides who wins a duplicate race.
		if err := tx.Create(participation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyParticipated
			}
			return fmt.Errorf("failed to create participation: %w", err)
		}

		// Capacity is claimed with the check inside the UPDATE, so the last
		// slot can only be handed out once.
		result := tx.Model(&models.Campaign{}).
			Where("id = ?", campaignID).
			Where("max_participants IS NULL OR current_participants < max_participants").
			Update("current_participants", gorm.Expr("current_participants + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to claim campaign slot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCampaignFull
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.campaigns.Invalidate(context.Background())

	log.Printf("[Campaign] User %d joined campaign %d", userID, campaignID)
	return participation, nil
}

// Complete validates the submitted evidence against the campaign requirements
// and, on pass, pays the reward and marks the participation completed. On fail
// the participation is rejected and nothing is paid. Both outcomes are
// terminal; a later call returns ErrAlreadyParticipated.
func (s *CampaignService) Complete(userID, campaignID uint, evidence *models.CompletionData) (*models.CampaignParticipation, error) {
	var participation models.CampaignParticipation
	if err := s.db.Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		First(&participation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrParticipationNotFound
		}
		return nil, err
	}

	if participation.Status != models.ParticipationInProgress {
		return nil, ErrAlreadyParticipated
	}

	var campaign models.Campaign
	if err := s.db.Where("id = ?", campaignID).First(&campaign).Error; err != nil {
		return nil, err
	}

	now := s.now()

	if err := validateCompletion(&campaign, evidence); err != nil {
		// Rejection is a recorded outcome, not an internal error: the row
		// moves to its terminal state and no reward is paid. The transition is
		// guarded on in_progress so a concurrent call that already reached a
		// terminal state is never overwritten. The evidence goes through a
		// struct update because the json serializer does not apply to maps.
		result := s.db.Model(&models.CampaignParticipation{}).
			Where("id = ? AND status = ?", participation.ID, models.ParticipationInProgress).
			Updates(models.CampaignParticipation{
				Status:         models.ParticipationRejected,
				CompletionData: evidence,
				CompletedAt:    &now,
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrAlreadyParticipated
		}
		participation.Status = models.ParticipationRejected
		participation.CompletionData = evidence
		participation.CompletedAt = &now

		log.Printf("[Campaign] Rejected completion for user %d on campaign %d: %v", userID, campaignID, err)
		return &participation, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The status transition is claimed first, guarded on in_progress, so
		// only one of two racing calls can move the row out of in_progress and
		// go on to pay; the loser rolls back before touching budget or wallet.
		result := tx.Model(&models.CampaignParticipation{}).
			Where("id = ? AND status = ?", participation.ID, models.ParticipationInProgress).
			Updates(models.CampaignParticipation{
				Status:         models.ParticipationCompleted,
				CompletionData: evidence,
				CompletedAt:    &now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to complete participation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyParticipated
		}

		cost := campaign.RewardCost()

		// Budget is claimed the same way capacity is: the ceiling check lives
		// inside the UPDATE.
		result = tx.Model(&models.Campaign{}).
			Where("id = ? AND spent_budget + ? <= total_budget", campaignID, cost).
			Update("spent_budget", gorm.Expr("spent_budget + ?", cost))
		if result.Error != nil {
			return fmt.Errorf("failed to claim campaign budget: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBudgetExhausted
		}

		if campaign.RewardSOD.IsPositive() {
			if _, err := s.ledger.ApplyDeltaTx(
				tx, userID, models.CurrencySOD, campaign.RewardSOD,
				models.TxTypeCampaignReward, "campaign reward: "+campaign.Title,
			); err != nil {
				return err
			}
		}

		if campaign.RewardToman.IsPositive() {
			if _, err := s.ledger.ApplyDeltaTx(
				tx, userID, models.CurrencyToman, campaign.RewardToman,
				models.TxTypeCampaignReward, "campaign reward: "+campaign.Title,
			); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	participation.Status = models.ParticipationCompleted
	participation.CompletionData = evidence
	participation.CompletedAt = &now

	log.Printf("[Campaign] User %d completed campaign %d (reward %s SOD / %s Toman)",
		userID, campaignID, campaign.RewardSOD, campaign.RewardToman)
	return &participation, nil
}

// validateCompletion checks the evidence against the campaign requirements,
// one branch per campaign type. Unknown types never validate.
func validateCompletion(campaign *models.Campaign, evidence *models.CompletionData) error {
	if evidence == nil {
		return ErrInvalidCompletionData
	}

	req := campaign.Requirements
	if req == nil {
		req = &models.CampaignRequirements{}
	}

	switch campaign.CampaignType {
	case models.CampaignTypeClick:
		minClicks := req.MinClicks
		if minClicks <= 0 {
			minClicks = 1
		}
		if evidence.Clicks < minClicks {
			return ErrInvalidCompletionData
		}

	case models.CampaignTypeView:
		if evidence.Duration < req.ViewDuration {
			return ErrInvalidCompletionData
		}

	case models.CampaignTypeShare:
		if evidence.Platform == "" {
			return ErrInvalidCompletionData
		}
		if len(req.Platforms) > 0 && !containsString(req.Platforms, evidence.Platform) {
			return ErrInvalidCompletionData
		}
		if evidence.Followers < req.MinFollowers {
			return ErrInvalidCompletionData
		}

	case models.CampaignTypeInstall:
		if evidence.AppID == "" || (req.AppID != "" && evidence.AppID != req.AppID) {
			return ErrInvalidCompletionData
		}
		if req.RegistrationRequired && !evidence.Registered {
			return ErrInvalidCompletionData
		}

	case models.CampaignTypePurchase:
		if evidence.OrderRef == "" {
			return ErrInvalidCompletionData
		}
		if evidence.Amount.LessThan(req.MinPurchase) {
			return ErrInvalidCompletionData
		}

	default:
		return ErrInvalidCompletionData
	}

	return nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// parseAmount parses a non-negative decimal amount; empty means zero
func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative")
	}
	return amount, nil
}

// CreateCampaignInput is what a business supplies when authoring a campaign
type CreateCampaignInput struct {
	Title           string
	Description     string
	CampaignType    string
	Requirements    *models.CampaignRequirements
	RewardSOD       string
	RewardToman     string
	TotalBudget     string
	MaxParticipants *int
	StartDate       time.Time
	EndDate         time.Time
}

// CreateCampaign creates an active campaign owned by a business user
func (s *CampaignService) CreateCampaign(businessID uint, input *CreateCampaignInput) (*models.Campaign, error) {
	switch input.CampaignType {
	case models.CampaignTypeClick, models.CampaignTypeView, models.CampaignTypeShare,
		models.CampaignTypeInstall, models.CampaignTypePurchase:
	default:
		return nil, fmt.Errorf("unknown campaign type: %s", input.CampaignType)
	}

	rewardSOD, err := parseAmount(input.RewardSOD)
	if err != nil {
		return nil, fmt.Errorf("invalid reward_sod: %w", err)
	}
	rewardToman, err := parseAmount(input.RewardToman)
	if err != nil {
		return nil, fmt.Errorf("invalid reward_toman: %w", err)
	}
	totalBudget, err := parseAmount(input.TotalBudget)
	if err != nil {
		return nil, fmt.Errorf("invalid total_budget: %w", err)
	}

	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("end_date must be after start_date")
	}

	campaign := &models.Campaign{
		BusinessID:      businessID,
		Title:           input.Title,
		Description:     input.Description,
		CampaignType:    input.CampaignType,
		Requirements:    input.Requirements,
		RewardSOD:       rewardSOD,
		RewardToman:     rewardToman,
		TotalBudget:     totalBudget,
		MaxParticipants: input.MaxParticipants,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          models.CampaignStatusActive,
	}

	if err := s.db.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.campaigns.Invalidate(context.Background())

	log.Printf("[Campaign] Business %d created campaign %d (%s)", businessID, campaign.ID, campaign.Title)
	return campaign, nil
}

// ListActiveCampaigns returns campaigns currently open for participation,
// served from the cache when one is wired.
func (s *CampaignService) ListActiveCampaigns(ctx context.Context) ([]models.Campaign, error) {
	if campaigns, ok := s.campaigns.GetActiveCampaigns(ctx); ok {
		return campaigns, nil
	}

	now := s.now()
	var campaigns []models.Campaign
	if err := s.db.
		Where("status = ? AND start_date <= ? AND end_date >= ?", models.CampaignStatusActive, now, now).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return nil, err
	}

	s.campaigns.SetActiveCampaigns(ctx, campaigns)
	return campaigns, nil
}

// GetCampaign returns one campaign by ID
func (s *CampaignService) GetCampaign(campaignID uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.db.Where("id = ?", campaignID).First(&campaign).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCampaignNotActive
		}
		return nil, err
	}
	return &campaign, nil
}

// GetParticipations returns all of a user's participations, newest first
func (s *CampaignService) GetParticipations(userID uint) ([]models.CampaignParticipation, error) {
	var participations []models.CampaignParticipation
	if err := s.db.Where("user_id = ?", userID).
		Preload("Campaign").
		Order("created_at DESC").
		Find(&participations).Error; err != nil {
		return nil, err
	}
	return participations, nil
}
