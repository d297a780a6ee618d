package mocks

import (
	"context"

	"go-gin-event-registration/internal/model"

	"github.com/stretchr/testify/mock"
)

type VisitorRepositoryMock struct {
	mock.Mock
}

func NewVisitorRepositoryMock() *VisitorRepositoryMock {
	return &VisitorRepositoryMock{}
}

func (m *VisitorRepositoryMock) Create(ctx context.Context, visitor *model.Visitor) (*model.Visitor, error) {
	args := m.Called(ctx, visitor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Visitor), args.Error(1)
}

func (m *VisitorRepositoryMock) List(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Visitor), args.Error(1)
}

func (m *VisitorRepositoryMock) ListByEventID(ctx context.Context, eventID int) ([]*model.Visitor, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Visitor), args.Error(1)
}

func (m *VisitorRepositoryMock) FindByID(ctx context.Context, id int) (*model.Visitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Visitor), args.Error(1)
}

func (m *VisitorRepositoryMock) Update(ctx context.Context, visitor *model.Visitor) (*model.Visitor, error) {
	args := m.Called(ctx, visitor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Visitor), args.Error(1)
}

func (m *VisitorRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
