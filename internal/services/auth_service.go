package services

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sodtech/internal/models"
	"sodtech/internal/utils"
)

const referralCodeAttempts = 5

// AuthService handles registration and login. Registration creates the user,
// wallet and mining stats as one unit, then runs the referral step, which is
// allowed to fail without failing the registration.
type AuthService struct {
	db        *gorm.DB
	referrals *ReferralService
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, referrals *ReferralService) *AuthService {
	return &AuthService{db: db, referrals: referrals}
}

// RegisterInput is what a new user supplies at sign-up
type RegisterInput struct {
	Name         string
	Phone        string
	Password     string
	ReferralCode string
}

// Register creates a new account. The returned error is nil even when the
// supplied referral code turns out invalid; callers who care can check
// ReferralApplied on the result.
type RegisterResult struct {
	User            *models.User
	ReferralApplied bool
}

// Register creates the user, wallet and mining stats, then applies the
// referral code if one was given.
func (s *AuthService) Register(input *RegisterInput) (*RegisterResult, error) {
	var existing int64
	if err := s.db.Model(&models.User{}).Where("phone = ?", input.Phone).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrPhoneAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		created, err := s.createUserWithCode(tx, input, string(hash))
		if err != nil {
			return err
		}
		user = created

		wallet := models.Wallet{UserID: user.ID}
		if err := tx.Create(&wallet).Error; err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}

		stats := models.MiningStats{
			UserID:      user.ID,
			MiningPower: models.DefaultMiningPower,
		}
		if err := tx.Create(&stats).Error; err != nil {
			return fmt.Errorf("failed to create mining stats: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{User: user}

	if input.ReferralCode != "" {
		if err := s.referrals.RegisterWithReferral(user.ID, input.ReferralCode); err != nil {
			if errors.Is(err, ErrInvalidReferral) {
				log.Printf("[Auth] User %d registered with unresolvable referral code %q", user.ID, input.ReferralCode)
			} else {
				log.Printf("[Auth] Referral step failed for user %d: %v", user.ID, err)
			}
		} else {
			result.ReferralApplied = true
		}
	}

	log.Printf("[Auth] New user registered: %s (ID: %d)", user.Phone, user.ID)
	return result, nil
}

// createUserWithCode inserts the user, retrying the generated referral code on
// a unique-index collision. The insert runs under a savepoint because postgres
// aborts the whole transaction after a failed statement.
func (s *AuthService) createUserWithCode(tx *gorm.DB, input *RegisterInput, passwordHash string) (*models.User, error) {
	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code, err := utils.GenerateReferralCode(input.Name)
		if err != nil {
			return nil, err
		}

		user := models.User{
			Name:         input.Name,
			Phone:        input.Phone,
			PasswordHash: passwordHash,
			Role:         models.RoleStandard,
			ReferralCode: code,
		}

		if err := tx.SavePoint("create_user").Error; err != nil {
			return nil, err
		}
		err = tx.Create(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.RollbackTo("create_user").Error; err != nil {
			return nil, err
		}

		// A duplicate can mean either unique index. A concurrent registration
		// of the same phone slips past the up-front check and lands here too,
		// so tell the cases apart before rolling a new code.
		var phones int64
		if err := tx.Model(&models.User{}).Where("phone = ?", input.Phone).Count(&phones).Error; err != nil {
			return nil, err
		}
		if phones > 0 {
			return nil, ErrPhoneAlreadyExists
		}
	}

	return nil, fmt.Errorf("could not generate a unique referral code after %d attempts", referralCodeAttempts)
}

// Login verifies the phone/password pair and returns the user
func (s *AuthService) Login(phone, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
