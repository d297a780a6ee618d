package apperrors

import "errors"

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrVisitorNotFound       = errors.New("visitor not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("registration with this params already exists")

	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInvalidVisitorLimit = errors.New("invalid visitor limit")
	ErrInvalidBilledAmount = errors.New("invalid billed amount")
	ErrInvalidRefundAmount = errors.New("invalid refund amount")
	ErrInvalidDatetime     = errors.New("invalid datetime")

	ErrIncomeNotCached = errors.New("event income not cached")
)
