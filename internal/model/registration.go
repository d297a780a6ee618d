package model

import "time"

// RegistrationStatus payment state of a registration
type RegistrationStatus string

const (
	RegistrationStatusUnpaid    RegistrationStatus = "unpaid"
	RegistrationStatusPaid      RegistrationStatus = "paid"
	RegistrationStatusRefunded  RegistrationStatus = "refunded"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusCompleted RegistrationStatus = "completed"
)

var RegistrationStatuses = []RegistrationStatus{
	RegistrationStatusUnpaid,
	RegistrationStatusPaid,
	RegistrationStatusRefunded,
	RegistrationStatusCancelled,
	RegistrationStatusCompleted,
}

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationStatusUnpaid, RegistrationStatusPaid, RegistrationStatusRefunded,
		RegistrationStatusCancelled, RegistrationStatusCompleted:
		return true
	}
	return false
}

type Registration struct {
	ID           int                `json:"id" db:"id"`
	VisitorID    int                `json:"visitor_id" db:"visitor_id"`
	EventID      int                `json:"event_id" db:"event_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	Price        *int               `json:"price" db:"price"`
	BilledAmount *int               `json:"billed_amount" db:"billed_amount"`
	RefundAmount *int               `json:"refund_amount" db:"refund_amount"`
	BilledAt     *time.Time         `json:"billed_at" db:"billed_at"`
	RefundedAt   *time.Time         `json:"refunded_at" db:"refunded_at"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`

	// filled by listing queries only
	EventTitle  string `json:"event_title,omitempty" db:"-"`
	VisitorName string `json:"visitor_name,omitempty" db:"-"`
}

// UpdateRegistrationParams is a proposed registration update as submitted.
// Amounts stay strings until the service parses them: nil keeps the stored
// value, "" clears it. An empty Status keeps the stored status.
type UpdateRegistrationParams struct {
	Status       RegistrationStatus
	BilledAmount *string
	RefundAmount *string
	BilledAt     *time.Time
	RefundedAt   *time.Time
}

type RegistrationFilter struct {
	ListParams
	EventID   *int
	VisitorID *int
}
