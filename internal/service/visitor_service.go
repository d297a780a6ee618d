package service

import (
	"context"
	"fmt"

	"go-gin-event-registration/internal/cache"
	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/repository"
	apperrors "go-gin-event-registration/pkg/app_errors"
	"go-gin-event-registration/pkg/logger"
	"go-gin-event-registration/pkg/validator"

	"go.uber.org/zap"
)

type VisitorService interface {
	List(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, error)
	GetByID(ctx context.Context, id int) (*model.Visitor, error)
	// GetDetail loads the visitor with the events they registered for.
	GetDetail(ctx context.Context, id int) (*model.VisitorDetail, error)
	Create(ctx context.Context, params model.VisitorParams) (*model.Visitor, error)
	Update(ctx context.Context, id int, params model.VisitorParams) (*model.Visitor, error)
	Delete(ctx context.Context, id int) error
}

type VisitorServiceImpl struct {
	repo             repository.VisitorRepository
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	incomeCache      cache.EventIncomeCache
}

func NewVisitorService(
	repo repository.VisitorRepository,
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	incomeCache cache.EventIncomeCache,
) VisitorService {
	return &VisitorServiceImpl{
		repo:             repo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		incomeCache:      incomeCache,
	}
}

func (s *VisitorServiceImpl) List(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, error) {
	return s.repo.List(ctx, filter)
}

func (s *VisitorServiceImpl) GetByID(ctx context.Context, id int) (*model.Visitor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *VisitorServiceImpl) GetDetail(ctx context.Context, id int) (*model.VisitorDetail, error) {
	visitor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByVisitorID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.VisitorDetail{
		Visitor: visitor,
		Events:  events,
	}, nil
}

func (s *VisitorServiceImpl) Create(ctx context.Context, params model.VisitorParams) (*model.Visitor, error) {
	if err := validator.Validate(ctx, params); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	visitor := &model.Visitor{}
	params.Apply(visitor)
	return s.repo.Create(ctx, visitor)
}

func (s *VisitorServiceImpl) Update(ctx context.Context, id int, params model.VisitorParams) (*model.Visitor, error) {
	if err := validator.Validate(ctx, params); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	visitor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	params.Apply(visitor)
	return s.repo.Update(ctx, visitor)
}

// Delete removes the visitor with their registrations and drops the cached
// income of the events those registrations belonged to.
func (s *VisitorServiceImpl) Delete(ctx context.Context, id int) error {
	eventIDs, err := s.registrationRepo.ListEventIDsByVisitorID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.incomeCache.Invalidate(ctx, eventIDs...); err != nil {
		logger.WithComponent("service").Warn("failed to invalidate cached income",
			zap.Int("visitor_id", id), zap.Ints("event_ids", eventIDs), zap.Error(err))
	}
	return nil
}
