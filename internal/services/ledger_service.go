package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sodtech/internal/models"
)

// LedgerService owns every balance mutation. A delta and its transaction
// record commit together or not at all, and debits that would push a balance
// negative are rejected at the store, not in application code.
type LedgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// ApplyDelta credits (positive amount) or debits (negative amount) one wallet
// balance and appends the matching transaction record, atomically.
func (s *LedgerService) ApplyDelta(
	userID uint,
	currency models.Currency,
	amount decimal.Decimal,
	txType string,
	description string,
) (*models.Transaction, error) {
	var txn *models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = s.ApplyDeltaTx(tx, userID, currency, amount, txType, description)
		return err
	})

	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ApplyDeltaTx is ApplyDelta inside a caller-owned transaction, so engines can
// fold a balance change into their own atomic unit (mine, boost, campaign
// reward, referral fan-out).
func (s *LedgerService) ApplyDeltaTx(
	tx *gorm.DB,
	userID uint,
	currency models.Currency,
	amount decimal.Decimal,
	txType string,
	description string,
) (*models.Transaction, error) {
	column, err := currency.BalanceColumn()
	if err != nil {
		return nil, err
	}

	// The balance moves by a relative delta with the non-negativity check in
	// the WHERE clause. Concurrent deltas serialize at the store; a stale
	// in-memory balance can never be written back.
	result := tx.Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Where(fmt.Sprintf("%s + ? >= 0", column), amount).
		Updates(map[string]interface{}{
			column:       gorm.Expr(fmt.Sprintf("%s + ?", column), amount),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update balance: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the wallet does not exist or the debit would go negative.
		var count int64
		if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrUserNotFound
		}
		return nil, ErrInsufficientBalance
	}

	txn := &models.Transaction{
		Reference:   uuid.NewString(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Currency:    currency,
		Description: description,
		Status:      models.TxStatusCompleted,
	}

	if err := tx.Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return txn, nil
}

// GetWallet returns a user's wallet
func (s *LedgerService) GetWallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// GetTransactions returns a user's most recent transactions
func (s *LedgerService) GetTransactions(userID uint, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
