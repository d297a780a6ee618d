package service

import (
	"context"
	"time"

	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/repository"
	"go-gin-event-registration/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TxBeginner starts the transaction shared by a write and its status hooks.
// *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// ResolveEventStatus applies the schedule rules to an event status about to be persisted.
func ResolveEventStatus(status model.EventStatus, startAt, endAt, now time.Time) model.EventStatus {
	if startAt.After(endAt) {
		return model.EventStatusCancelled
	}
	if status == model.EventStatusCancelled {
		return status
	}
	if !now.Before(startAt) {
		status = model.EventStatusActive
	}
	if !now.Before(endAt) {
		status = model.EventStatusCompleted
	}
	return status
}

// CascadeRegistrationStatus returns the status a registration takes after its
// event was written with eventStatus, and whether it changed.
// A missing billed amount or price counts as zero.
func CascadeRegistrationStatus(eventStatus model.EventStatus, registration *model.Registration) (model.RegistrationStatus, bool) {
	var next model.RegistrationStatus

	switch eventStatus {
	case model.EventStatusActive, model.EventStatusCompleted:
		billed := valueOrZero(registration.BilledAmount)
		price := valueOrZero(registration.Price)
		switch {
		case billed == price:
			next = model.RegistrationStatusCompleted
		case billed < price:
			next = model.RegistrationStatusCancelled
		default:
			return registration.Status, false
		}
	case model.EventStatusCancelled:
		next = model.RegistrationStatusCancelled
	default:
		return registration.Status, false
	}

	return next, next != registration.Status
}

// EventStatusAfterRegistration returns the event status implied by a written
// registration, and whether the event must change. paidCount is the number of
// paid registrations of the event including the written one.
func EventStatusAfterRegistration(event *model.Event, status model.RegistrationStatus, paidCount int) (model.EventStatus, bool) {
	var next model.EventStatus

	switch {
	case status == model.RegistrationStatusPaid && event.HasVisitorLimit():
		if paidCount < *event.VisitorLimit {
			return event.Status, false
		}
		next = model.EventStatusReady
	case status == model.RegistrationStatusRefunded:
		next = model.EventStatusPlanning
	default:
		return event.Status, false
	}

	return next, next != event.Status
}

// StatusSynchronizer runs the status hooks inside the caller's transaction.
// Each direction runs once per write; a hook never triggers the other one.
type StatusSynchronizer struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	now              func() time.Time
}

func NewStatusSynchronizer(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	now func() time.Time,
) *StatusSynchronizer {
	if now == nil {
		now = time.Now
	}
	return &StatusSynchronizer{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		now:              now,
	}
}

// BeforeEventWrite sets the status the event is persisted with.
func (s *StatusSynchronizer) BeforeEventWrite(event *model.Event) {
	event.Status = ResolveEventStatus(event.Status, event.StartAt, event.EndAt, s.now())
}

// AfterEventWrite cascades the persisted event status to its registrations.
func (s *StatusSynchronizer) AfterEventWrite(ctx context.Context, tx pgx.Tx, event *model.Event) error {
	switch event.Status {
	case model.EventStatusActive, model.EventStatusCompleted, model.EventStatusCancelled:
	default:
		return nil
	}

	registrations, err := s.registrationRepo.ListByEventIDForUpdate(ctx, tx, event.ID)
	if err != nil {
		return err
	}

	for _, registration := range registrations {
		next, changed := CascadeRegistrationStatus(event.Status, registration)
		if !changed {
			continue
		}
		if err := s.registrationRepo.UpdateStatus(ctx, tx, registration.ID, next); err != nil {
			return err
		}
		logger.WithComponent("status_sync").Debug("registration status cascaded",
			zap.Int("event_id", event.ID),
			zap.Int("registration_id", registration.ID),
			zap.String("from", string(registration.Status)),
			zap.String("to", string(next)),
		)
		registration.Status = next
	}

	return nil
}

// AfterRegistrationWrite updates the event of a written registration.
func (s *StatusSynchronizer) AfterRegistrationWrite(ctx context.Context, tx pgx.Tx, registration *model.Registration) error {
	if registration.Status != model.RegistrationStatusPaid && registration.Status != model.RegistrationStatusRefunded {
		return nil
	}

	event, err := s.eventRepo.FindByIDWithLock(ctx, tx, registration.EventID)
	if err != nil {
		return err
	}

	paidCount := 0
	if registration.Status == model.RegistrationStatusPaid && event.HasVisitorLimit() {
		paidCount, err = s.registrationRepo.CountByEventAndStatus(ctx, tx, event.ID, model.RegistrationStatusPaid)
		if err != nil {
			return err
		}
	}

	next, changed := EventStatusAfterRegistration(event, registration.Status, paidCount)
	if !changed {
		return nil
	}

	logger.WithComponent("status_sync").Debug("event status synced from registration",
		zap.Int("event_id", event.ID),
		zap.Int("registration_id", registration.ID),
		zap.String("from", string(event.Status)),
		zap.String("to", string(next)),
	)
	return s.eventRepo.UpdateStatus(ctx, tx, event.ID, next)
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
