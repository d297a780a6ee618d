package mocks

import (
	"context"

	"go-gin-event-registration/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type RegistrationRepositoryMock struct {
	mock.Mock
}

func NewRegistrationRepositoryMock() *RegistrationRepositoryMock {
	return &RegistrationRepositoryMock{}
}

func (m *RegistrationRepositoryMock) List(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) FindByID(ctx context.Context, id int) (*model.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) ListEventIDsByVisitorID(ctx context.Context, visitorID int) ([]int, error) {
	args := m.Called(ctx, visitorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *RegistrationRepositoryMock) Delete(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RegistrationRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Registration, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) ExistsForPair(ctx context.Context, tx pgx.Tx, eventID, visitorID int) (bool, error) {
	args := m.Called(ctx, tx, eventID, visitorID)
	return args.Bool(0), args.Error(1)
}

func (m *RegistrationRepositoryMock) ListByEventIDForUpdate(ctx context.Context, tx pgx.Tx, eventID int) ([]*model.Registration, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) CountByEventAndStatus(ctx context.Context, tx pgx.Tx, eventID int, status model.RegistrationStatus) (int, error) {
	args := m.Called(ctx, tx, eventID, status)
	return args.Int(0), args.Error(1)
}

func (m *RegistrationRepositoryMock) Create(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, tx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) Update(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, tx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.RegistrationStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}
