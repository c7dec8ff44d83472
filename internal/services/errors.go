package services

import "errors"

// Failure kinds surfaced to callers. Each is terminal for the call that
// returns it and leaves no partial state behind; handlers map them to HTTP
// statuses and the messages shown to users.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBoostAlreadyActive  = errors.New("a boost is already active")

	ErrCampaignNotActive     = errors.New("campaign is not active")
	ErrCampaignWindowClosed  = errors.New("campaign is outside its active window")
	ErrCampaignFull          = errors.New("campaign has reached its participant limit")
	ErrBudgetExhausted       = errors.New("campaign budget is exhausted")
	ErrAlreadyParticipated   = errors.New("user already participated in this campaign")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrInvalidCompletionData = errors.New("completion data does not satisfy the campaign requirements")

	ErrInvalidReferral = errors.New("invalid referral code")

	ErrUserNotFound       = errors.New("user not found")
	ErrPhoneAlreadyExists = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid phone or password")
)
