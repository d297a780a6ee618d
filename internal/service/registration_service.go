package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go-gin-event-registration/internal/cache"
	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/repository"
	apperrors "go-gin-event-registration/pkg/app_errors"
	"go-gin-event-registration/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var errNotAnAmount = errors.New("amount must be a non-negative integer")

type RegistrationService interface {
	List(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error)
	GetByID(ctx context.Context, id int) (*model.Registration, error)
	Create(ctx context.Context, eventID, visitorID int) (*model.Registration, error)
	Update(ctx context.Context, id int, params model.UpdateRegistrationParams) (*model.Registration, error)
	Delete(ctx context.Context, id int) error
}

type RegistrationServiceImpl struct {
	db          TxBeginner
	repo        repository.RegistrationRepository
	eventRepo   repository.EventRepository
	visitorRepo repository.VisitorRepository
	incomeCache cache.EventIncomeCache
	sync        *StatusSynchronizer
}

func NewRegistrationService(
	db TxBeginner,
	repo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	visitorRepo repository.VisitorRepository,
	incomeCache cache.EventIncomeCache,
	sync *StatusSynchronizer,
) RegistrationService {
	return &RegistrationServiceImpl{
		db:          db,
		repo:        repo,
		eventRepo:   eventRepo,
		visitorRepo: visitorRepo,
		incomeCache: incomeCache,
		sync:        sync,
	}
}

func (s *RegistrationServiceImpl) List(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error) {
	return s.repo.List(ctx, filter)
}

func (s *RegistrationServiceImpl) GetByID(ctx context.Context, id int) (*model.Registration, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RegistrationServiceImpl) Create(ctx context.Context, eventID, visitorID int) (*model.Registration, error) {
	if _, err := s.visitorRepo.FindByID(ctx, visitorID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// the event row lock serializes registrations counted against its limit
	event, err := s.eventRepo.FindByIDWithLock(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForPair(ctx, tx, eventID, visitorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateRegistration
	}

	price := event.Price
	registration := &model.Registration{
		EventID:   eventID,
		VisitorID: visitorID,
		Status:    InitialRegistrationStatus(event.Price),
		Price:     &price,
	}

	created, err := s.repo.Create(ctx, tx, registration)
	if err != nil {
		return nil, err
	}

	if err := s.sync.AfterRegistrationWrite(ctx, tx, created); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidateIncome(ctx, eventID)
	return created, nil
}

func (s *RegistrationServiceImpl) Update(ctx context.Context, id int, params model.UpdateRegistrationParams) (*model.Registration, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// lock order is event then registration, the same as event writes take
	if _, err := s.eventRepo.FindByIDWithLock(ctx, tx, current.EventID); err != nil {
		// the event took the registration with it
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	registration, err := s.repo.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	billed, billedSet, err := ParseAmount(params.BilledAmount)
	if err != nil {
		return nil, apperrors.ErrInvalidBilledAmount
	}
	refund, refundSet, err := ParseAmount(params.RefundAmount)
	if err != nil {
		return nil, apperrors.ErrInvalidRefundAmount
	}
	if params.Status != "" && !params.Status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	if params.Status != "" {
		registration.Status = params.Status
	}
	if billedSet {
		registration.BilledAmount = billed
	}
	if refundSet {
		registration.RefundAmount = refund
	}
	if params.BilledAt != nil {
		registration.BilledAt = params.BilledAt
	}
	if params.RefundedAt != nil {
		registration.RefundedAt = params.RefundedAt
	}
	ApplyPaymentRules(registration, billed, refund, s.sync.now())

	updated, err := s.repo.Update(ctx, tx, registration)
	if err != nil {
		return nil, err
	}

	if err := s.sync.AfterRegistrationWrite(ctx, tx, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidateIncome(ctx, updated.EventID)
	return updated, nil
}

func (s *RegistrationServiceImpl) Delete(ctx context.Context, id int) error {
	eventID, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.invalidateIncome(ctx, eventID)
	return nil
}

func (s *RegistrationServiceImpl) invalidateIncome(ctx context.Context, eventID int) {
	if err := s.incomeCache.Invalidate(ctx, eventID); err != nil {
		logger.WithComponent("service").Warn("failed to invalidate cached income",
			zap.Int("event_id", eventID), zap.Error(err))
	}
}

// InitialRegistrationStatus is the status of a new registration: free events start paid.
func InitialRegistrationStatus(eventPrice int) model.RegistrationStatus {
	if eventPrice == 0 {
		return model.RegistrationStatusPaid
	}
	return model.RegistrationStatusUnpaid
}

// ParseAmount parses a submitted amount. A nil input is not set; an empty
// string is set to nil; anything else must be a plain non-negative integer.
func ParseAmount(raw *string) (*int, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if *raw == "" {
		return nil, true, nil
	}
	for _, r := range *raw {
		if r < '0' || r > '9' {
			return nil, false, errNotAnAmount
		}
	}
	value, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, false, errNotAnAmount
	}
	return &value, true, nil
}

// ApplyPaymentRules marks a registration paid when billed matches its price and
// refunded when a refund is given. Refund wins when both apply.
func ApplyPaymentRules(registration *model.Registration, billed, refund *int, now time.Time) {
	if billed != nil && *billed > 0 && registration.Price != nil && *billed == *registration.Price {
		registration.Status = model.RegistrationStatusPaid
		registration.BilledAmount = billed
		registration.BilledAt = &now
	}
	if refund != nil && *refund > 0 {
		registration.Status = model.RegistrationStatusRefunded
		registration.RefundAmount = refund
		registration.RefundedAt = &now
	}
}
