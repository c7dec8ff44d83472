package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sodtech/internal/models"
)

func TestMineBaseAward(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Kian", "+989121000001", "KIA20001")

	ledger := NewLedgerService(db)
	mining := NewMiningService(db, ledger)

	earned, err := mining.Mine(user.ID)
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	if !earned.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected earned 5, got %s", earned)
	}

	wallet := getWallet(t, db, user.ID)
	if !wallet.SodBalance.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected sod balance 5, got %s", wallet.SodBalance)
	}

	stats, err := mining.GetStats(user.ID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if !stats.TodayEarned.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected today_earned 5, got %s", stats.TodayEarned)
	}
	if !stats.TotalMined.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected total_mined 5, got %s", stats.TotalMined)
	}
	if stats.LastMineTime == nil {
		t.Error("expected last_mine_time to be set")
	}

	var count int64
	db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.TxTypeMining).
		Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one mining transaction, got %d", count)
	}
}

func TestMineUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	mining := NewMiningService(db, NewLedgerService(db))

	if _, err := mining.Mine(42); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestBoostMultiplierAndLazyExpiry(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Lena", "+989121000002", "LEN20002")
	fundWallet(t, db, user.ID, models.CurrencySOD, 10000)

	ledger := NewLedgerService(db)
	mining := NewMiningService(db, ledger)

	// Pin the clock so the window boundary is exact.
	current := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	mining.now = func() time.Time { return current }

	state, err := mining.ActivateBoost(user.ID)
	if err != nil {
		t.Fatalf("ActivateBoost failed: %v", err)
	}
	if !state.Active || state.Multiplier != models.BoostMultiplier {
		t.Errorf("expected active 3x boost, got %+v", state)
	}
	if !state.EndTime.Equal(current.Add(models.BoostDuration)) {
		t.Errorf("expected end time %s, got %s", current.Add(models.BoostDuration), state.EndTime)
	}

	wallet := getWallet(t, db, user.ID)
	if !wallet.SodBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected 5000 after boost debit, got %s", wallet.SodBalance)
	}

	// Inside the window the award triples.
	current = current.Add(10 * time.Second)
	earned, err := mining.Mine(user.ID)
	if err != nil {
		t.Fatalf("Mine during boost failed: %v", err)
	}
	if !earned.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected earned 15 during boost, got %s", earned)
	}

	// Past the end time the multiplier drops back without any deactivation
	// call having run.
	current = current.Add(models.BoostDuration)
	earned, err = mining.Mine(user.ID)
	if err != nil {
		t.Fatalf("Mine after boost failed: %v", err)
	}
	if !earned.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected earned 5 after boost expiry, got %s", earned)
	}

	boost, err := mining.GetBoostState(user.ID)
	if err != nil {
		t.Fatalf("GetBoostState failed: %v", err)
	}
	if boost.Active || boost.Multiplier != 1 {
		t.Errorf("expected expired boost, got %+v", boost)
	}
}

func TestActivateBoostInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Pouya", "+989121000003", "POU20003")
	fundWallet(t, db, user.ID, models.CurrencySOD, 4999)

	mining := NewMiningService(db, NewLedgerService(db))

	if _, err := mining.ActivateBoost(user.ID); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// No partial effects: balance untouched, no boost window, no transaction.
	wallet := getWallet(t, db, user.ID)
	if !wallet.SodBalance.Equal(decimal.NewFromInt(4999)) {
		t.Errorf("expected balance 4999, got %s", wallet.SodBalance)
	}

	stats, _ := mining.GetStats(user.ID)
	if stats.BoostEndTime != nil {
		t.Error("expected no boost end time after failed activation")
	}

	var count int64
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no transactions, got %d", count)
	}
}

func TestActivateBoostWhileActive(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Dina", "+989121000004", "DIN20004")
	fundWallet(t, db, user.ID, models.CurrencySOD, 20000)

	mining := NewMiningService(db, NewLedgerService(db))

	current := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	mining.now = func() time.Time { return current }

	if _, err := mining.ActivateBoost(user.ID); err != nil {
		t.Fatalf("first ActivateBoost failed: %v", err)
	}

	current = current.Add(5 * time.Second)
	if _, err := mining.ActivateBoost(user.ID); err != ErrBoostAlreadyActive {
		t.Fatalf("expected ErrBoostAlreadyActive, got %v", err)
	}

	// Only the first activation was charged.
	wallet := getWallet(t, db, user.ID)
	if !wallet.SodBalance.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("expected balance 15000, got %s", wallet.SodBalance)
	}

	// Once expired, a new boost can be bought.
	current = current.Add(models.BoostDuration)
	if _, err := mining.ActivateBoost(user.ID); err != nil {
		t.Fatalf("ActivateBoost after expiry failed: %v", err)
	}
}
