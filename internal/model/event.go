package model

import "time"

// EventStatus event lifecycle state
type EventStatus string

const (
	EventStatusPlanning  EventStatus = "planning"
	EventStatusReady     EventStatus = "ready"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// EventStatuses in the order the UI lists them.
var EventStatuses = []EventStatus{
	EventStatusPlanning,
	EventStatusReady,
	EventStatusActive,
	EventStatusCompleted,
	EventStatusCancelled,
}

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusPlanning, EventStatusReady, EventStatusActive, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// AcceptsRegistrations reports whether new registrations may be offered for the status.
func (s EventStatus) AcceptsRegistrations() bool {
	switch s {
	case EventStatusCancelled, EventStatusCompleted, EventStatusReady:
		return false
	}
	return true
}

type Event struct {
	ID           int         `json:"id" db:"id"`
	Title        string      `json:"title" db:"title"`
	Status       EventStatus `json:"status" db:"status"`
	Description  *string     `json:"description" db:"description"`
	StartAt      time.Time   `json:"start_at" db:"start_at"`
	Location     string      `json:"location" db:"location"`
	EndAt        time.Time   `json:"end_at" db:"end_at"`
	Price        int         `json:"price" db:"price"`
	VisitorLimit *int        `json:"visitor_limit" db:"visitor_limit"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// HasVisitorLimit reports whether a positive capacity is configured.
func (e *Event) HasVisitorLimit() bool {
	return e.VisitorLimit != nil && *e.VisitorLimit > 0
}

// EventParams carries the writable fields of an event for create and full update.
type EventParams struct {
	Title        string      `validate:"required,max=255"`
	Status       EventStatus `validate:"required,oneof=planning ready active completed cancelled"`
	Description  *string     `validate:"omitempty,max=255"`
	StartAt      time.Time   `validate:"required"`
	Location     string      `validate:"required,max=255"`
	EndAt        time.Time   `validate:"required"`
	Price        int         `validate:"gte=0"`
	VisitorLimit *int        `validate:"omitempty,gte=0"`
}

// Apply copies params onto the event.
func (p EventParams) Apply(e *Event) {
	e.Title = p.Title
	e.Status = p.Status
	e.Description = p.Description
	e.StartAt = p.StartAt
	e.Location = p.Location
	e.EndAt = p.EndAt
	e.Price = p.Price
	e.VisitorLimit = p.VisitorLimit
}

// EventIncome aggregates money movements over the registrations of one event.
type EventIncome struct {
	TotalIncome    int `json:"total_income"`
	ExpectedIncome int `json:"expected_income"`
}

type EventDetail struct {
	Event    *Event      `json:"event"`
	Visitors []*Visitor  `json:"visitors"`
	Income   EventIncome `json:"income"`
}

type EventFilter struct {
	ListParams
	VisitorID *int
}
