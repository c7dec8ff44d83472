package services

import (
	"testing"

	"gorm.io/gorm"

	"sodtech/internal/models"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	ledger := NewLedgerService(db)
	return NewAuthService(db, NewReferralService(db, ledger))
}

func TestRegisterCreatesAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	result, err := svc.Register(&RegisterInput{
		Name:     "Vahid",
		Phone:    "+989124000001",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	user := result.User
	if user.ID == 0 {
		t.Fatal("expected user to be persisted")
	}
	if user.Role != models.RoleStandard {
		t.Errorf("expected standard role, got %s", user.Role)
	}
	if user.ReferralCode == "" {
		t.Error("expected a generated referral code")
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password must not be stored in the clear")
	}
	if result.ReferralApplied {
		t.Error("no referral code was given")
	}

	// Registration provisions the wallet and mining stats alongside the user.
	wallet := getWallet(t, db, user.ID)
	if !wallet.SodBalance.IsZero() || !wallet.TomanBalance.IsZero() {
		t.Errorf("expected empty wallet, got %s SOD / %s Toman", wallet.SodBalance, wallet.TomanBalance)
	}

	var stats models.MiningStats
	if err := db.Where("user_id = ?", user.ID).First(&stats).Error; err != nil {
		t.Fatalf("failed to load mining stats: %v", err)
	}
	if stats.MiningPower != models.DefaultMiningPower {
		t.Errorf("expected mining power %d, got %d", models.DefaultMiningPower, stats.MiningPower)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	input := &RegisterInput{Name: "Yasmin", Phone: "+989124000002", Password: "s3cret-pass"}
	if _, err := svc.Register(input); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	if _, err := svc.Register(input); err != ErrPhoneAlreadyExists {
		t.Fatalf("expected ErrPhoneAlreadyExists, got %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("phone = ?", input.Phone).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestRegisterDuplicatePhoneAtInsert(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	input := &RegisterInput{Name: "Ehsan", Phone: "+989124000007", Password: "s3cret-pass"}
	if _, err := svc.Register(input); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Hit the insert directly, the way a concurrent registration that already
	// passed the phone pre-check arrives at it. The duplicate must be reported
	// as a taken phone, not as a referral-code collision.
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.createUserWithCode(tx, input, "irrelevant-hash")
		return err
	})
	if err != ErrPhoneAlreadyExists {
		t.Fatalf("expected ErrPhoneAlreadyExists, got %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("phone = ?", input.Phone).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestRegisterWithReferralCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	referrer, err := svc.Register(&RegisterInput{
		Name:     "Zahra",
		Phone:    "+989124000003",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("referrer Register failed: %v", err)
	}

	result, err := svc.Register(&RegisterInput{
		Name:         "Arman",
		Phone:        "+989124000004",
		Password:     "s3cret-pass",
		ReferralCode: referrer.User.ReferralCode,
	})
	if err != nil {
		t.Fatalf("Register with referral failed: %v", err)
	}
	if !result.ReferralApplied {
		t.Error("expected referral to be applied")
	}

	if wallet := getWallet(t, db, result.User.ID); !wallet.SodBalance.Equal(models.ReferralSignupBonus) {
		t.Errorf("expected signup bonus, got %s", wallet.SodBalance)
	}
	if wallet := getWallet(t, db, referrer.User.ID); !wallet.TomanBalance.Equal(models.ReferralReward) {
		t.Errorf("expected referral reward, got %s", wallet.TomanBalance)
	}
}

func TestRegisterWithBadReferralCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	// A bad code never blocks the registration itself.
	result, err := svc.Register(&RegisterInput{
		Name:         "Behnam",
		Phone:        "+989124000005",
		Password:     "s3cret-pass",
		ReferralCode: "NOPE99999",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.ReferralApplied {
		t.Error("unresolvable code must not count as applied")
	}
	if wallet := getWallet(t, db, result.User.ID); !wallet.SodBalance.IsZero() {
		t.Errorf("expected no bonus, got %s", wallet.SodBalance)
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	if _, err := svc.Register(&RegisterInput{
		Name:     "Davood",
		Phone:    "+989124000006",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.Login("+989124000006", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Phone != "+989124000006" {
		t.Errorf("unexpected user: %s", user.Phone)
	}

	if _, err := svc.Login("+989124000006", "wrong-pass"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("+989124999999", "s3cret-pass"); err != ErrInvalidCredentials {
		t.Errorf("unknown phone: expected ErrInvalidCredentials, got %v", err)
	}
}
