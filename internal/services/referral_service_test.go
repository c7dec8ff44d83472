package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"sodtech/internal/models"
)

func TestRegisterWithReferralFanOut(t *testing.T) {
	db := setupTestDB(t)
	referrer := createTestUser(t, db, "Kian", "+989123000001", "KIA40001")
	joined := createTestUser(t, db, "Leila", "+989123000002", "LEI40002")

	svc := NewReferralService(db, NewLedgerService(db))

	if err := svc.RegisterWithReferral(joined.ID, "KIA40001"); err != nil {
		t.Fatalf("RegisterWithReferral failed: %v", err)
	}

	if wallet := getWallet(t, db, joined.ID); !wallet.SodBalance.Equal(models.ReferralSignupBonus) {
		t.Errorf("expected signup bonus %s SOD, got %s", models.ReferralSignupBonus, wallet.SodBalance)
	}
	if wallet := getWallet(t, db, referrer.ID); !wallet.TomanBalance.Equal(models.ReferralReward) {
		t.Errorf("expected referral reward %s Toman, got %s", models.ReferralReward, wallet.TomanBalance)
	}

	var referral models.Referral
	if err := db.Where("referred_id = ?", joined.ID).First(&referral).Error; err != nil {
		t.Fatalf("failed to load referral: %v", err)
	}
	if referral.ReferrerID != referrer.ID {
		t.Errorf("expected referrer %d, got %d", referrer.ID, referral.ReferrerID)
	}
	if referral.Status != models.ReferralStatusRegistered {
		t.Errorf("expected registered status, got %s", referral.Status)
	}

	var joinedUser models.User
	if err := db.First(&joinedUser, joined.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if joinedUser.ReferredBy == nil || *joinedUser.ReferredBy != referrer.ID {
		t.Error("expected referred_by to point at the referrer")
	}

	var count int64
	db.Model(&models.Transaction{}).
		Where("type IN ?", []string{models.TxTypeReferralBonus, models.TxTypeReferralReward}).
		Where("status = ?", models.TxStatusCompleted).
		Count(&count)
	if count != 2 {
		t.Errorf("expected 2 referral transactions, got %d", count)
	}
}

func TestRegisterWithReferralReplay(t *testing.T) {
	db := setupTestDB(t)
	referrer := createTestUser(t, db, "Mina", "+989123000003", "MIN40003")
	other := createTestUser(t, db, "Nima", "+989123000004", "NIM40004")
	joined := createTestUser(t, db, "Omid", "+989123000005", "OMI40005")

	svc := NewReferralService(db, NewLedgerService(db))

	if err := svc.RegisterWithReferral(joined.ID, "MIN40003"); err != nil {
		t.Fatalf("first RegisterWithReferral failed: %v", err)
	}

	// Replaying with the same or a different code must not pay again.
	if err := svc.RegisterWithReferral(joined.ID, "MIN40003"); err != ErrInvalidReferral {
		t.Fatalf("replay: expected ErrInvalidReferral, got %v", err)
	}
	if err := svc.RegisterWithReferral(joined.ID, "NIM40004"); err != ErrInvalidReferral {
		t.Fatalf("second code: expected ErrInvalidReferral, got %v", err)
	}

	if wallet := getWallet(t, db, joined.ID); !wallet.SodBalance.Equal(models.ReferralSignupBonus) {
		t.Errorf("expected single signup bonus, got %s", wallet.SodBalance)
	}
	if wallet := getWallet(t, db, referrer.ID); !wallet.TomanBalance.Equal(models.ReferralReward) {
		t.Errorf("expected single referral reward, got %s", wallet.TomanBalance)
	}
	if wallet := getWallet(t, db, other.ID); !wallet.TomanBalance.IsZero() {
		t.Errorf("expected no reward for the second code, got %s", wallet.TomanBalance)
	}

	var count int64
	db.Model(&models.Referral{}).Where("referred_id = ?", joined.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 referral row, got %d", count)
	}
}

func TestRegisterWithReferralInvalidCodes(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Parisa", "+989123000006", "PAR40006")

	svc := NewReferralService(db, NewLedgerService(db))

	if err := svc.RegisterWithReferral(user.ID, ""); err != ErrInvalidReferral {
		t.Errorf("empty code: expected ErrInvalidReferral, got %v", err)
	}
	if err := svc.RegisterWithReferral(user.ID, "NOPE99999"); err != ErrInvalidReferral {
		t.Errorf("unknown code: expected ErrInvalidReferral, got %v", err)
	}
	if err := svc.RegisterWithReferral(user.ID, "PAR40006"); err != ErrInvalidReferral {
		t.Errorf("self referral: expected ErrInvalidReferral, got %v", err)
	}

	if wallet := getWallet(t, db, user.ID); !wallet.SodBalance.IsZero() {
		t.Errorf("expected no bonus, got %s", wallet.SodBalance)
	}
}

func TestGetReferrals(t *testing.T) {
	db := setupTestDB(t)
	referrer := createTestUser(t, db, "Rana", "+989123000007", "RAN40007")
	first := createTestUser(t, db, "Sara", "+989123000008", "SAR40008")
	second := createTestUser(t, db, "Taha", "+989123000009", "TAH40009")

	svc := NewReferralService(db, NewLedgerService(db))

	if err := svc.RegisterWithReferral(first.ID, "RAN40007"); err != nil {
		t.Fatalf("RegisterWithReferral failed: %v", err)
	}
	if err := svc.RegisterWithReferral(second.ID, "RAN40007"); err != nil {
		t.Fatalf("RegisterWithReferral failed: %v", err)
	}

	referrals, err := svc.GetReferrals(referrer.ID)
	if err != nil {
		t.Fatalf("GetReferrals failed: %v", err)
	}
	if len(referrals) != 2 {
		t.Fatalf("expected 2 referrals, got %d", len(referrals))
	}
	for _, r := range referrals {
		if r.Referred == nil {
			t.Error("expected referred user to be preloaded")
		}
	}

	if wallet := getWallet(t, db, referrer.ID); !wallet.TomanBalance.Equal(models.ReferralReward.Mul(decimal.NewFromInt(2))) {
		t.Errorf("expected two rewards, got %s", wallet.TomanBalance)
	}
}
