package service

import (
	"context"
	"errors"
	"fmt"

	"go-gin-event-registration/internal/cache"
	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/repository"
	apperrors "go-gin-event-registration/pkg/app_errors"
	"go-gin-event-registration/pkg/logger"
	"go-gin-event-registration/pkg/validator"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	ListOpenForRegistration(ctx context.Context) ([]*model.Event, error)
	GetByID(ctx context.Context, id int) (*model.Event, error)
	// GetDetail loads the event with its visitors and income.
	GetDetail(ctx context.Context, id int) (*model.EventDetail, error)
	Create(ctx context.Context, params model.EventParams) (*model.Event, error)
	Update(ctx context.Context, id int, params model.EventParams) (*model.Event, error)
	Delete(ctx context.Context, id int) error
}

type EventServiceImpl struct {
	db          TxBeginner
	repo        repository.EventRepository
	visitorRepo repository.VisitorRepository
	incomeCache cache.EventIncomeCache
	sync        *StatusSynchronizer
}

func NewEventService(
	db TxBeginner,
	repo repository.EventRepository,
	visitorRepo repository.VisitorRepository,
	incomeCache cache.EventIncomeCache,
	sync *StatusSynchronizer,
) EventService {
	return &EventServiceImpl{
		db:          db,
		repo:        repo,
		visitorRepo: visitorRepo,
		incomeCache: incomeCache,
		sync:        sync,
	}
}

func (s *EventServiceImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	return s.repo.List(ctx, filter)
}

func (s *EventServiceImpl) ListOpenForRegistration(ctx context.Context) ([]*model.Event, error) {
	return s.repo.ListOpenForRegistration(ctx)
}

func (s *EventServiceImpl) GetByID(ctx context.Context, id int) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventServiceImpl) GetDetail(ctx context.Context, id int) (*model.EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	visitors, err := s.visitorRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, err
	}

	income, err := s.income(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.EventDetail{
		Event:    event,
		Visitors: visitors,
		Income:   income,
	}, nil
}

// income reads through the cache; cache failures fall back to the database.
func (s *EventServiceImpl) income(ctx context.Context, id int) (model.EventIncome, error) {
	log := logger.WithComponent("service").With(zap.Int("event_id", id))

	income, err := s.incomeCache.Get(ctx, id)
	if err == nil {
		return income, nil
	}
	if !errors.Is(err, apperrors.ErrIncomeNotCached) {
		log.Warn("failed to read cached income", zap.Error(err))
	}

	// read before the income so a concurrent invalidation makes Set a no-op
	version, versionErr := s.incomeCache.Version(ctx, id)
	if versionErr != nil {
		log.Warn("failed to read cached income version", zap.Error(versionErr))
	}

	income, err = s.repo.GetIncome(ctx, id)
	if err != nil {
		return model.EventIncome{}, err
	}

	if versionErr == nil {
		if err := s.incomeCache.Set(ctx, id, version, income); err != nil {
			log.Warn("failed to cache income", zap.Error(err))
		}
	}

	return income, nil
}

func (s *EventServiceImpl) Create(ctx context.Context, params model.EventParams) (*model.Event, error) {
	if params.Status == "" {
		params.Status = model.EventStatusPlanning
	}
	if err := validateEventParams(ctx, params); err != nil {
		return nil, err
	}

	event := &model.Event{}
	params.Apply(event)
	s.sync.BeforeEventWrite(event)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := s.repo.Create(ctx, tx, event)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, id int, params model.EventParams) (*model.Event, error) {
	if err := validateEventParams(ctx, params); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.repo.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	params.Apply(event)
	s.sync.BeforeEventWrite(event)

	updated, err := s.repo.Update(ctx, tx, event)
	if err != nil {
		return nil, err
	}

	if err := s.sync.AfterEventWrite(ctx, tx, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.incomeCache.Invalidate(ctx, id); err != nil {
		logger.WithComponent("service").Warn("failed to invalidate cached income",
			zap.Int("event_id", id), zap.Error(err))
	}
	return nil
}

func validateEventParams(ctx context.Context, params model.EventParams) error {
	if params.Price < 0 {
		return apperrors.ErrInvalidPrice
	}
	if params.VisitorLimit != nil && *params.VisitorLimit < 0 {
		return apperrors.ErrInvalidVisitorLimit
	}
	if !params.Status.IsValid() {
		return apperrors.ErrInvalidStatus
	}
	if err := validator.Validate(ctx, params); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}
