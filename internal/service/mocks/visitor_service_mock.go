package mocks

import (
	"context"

	"go-gin-event-registration/internal/model"

	"github.com/stretchr/testify/mock"
)

type VisitorServiceMock struct {
	mock.Mock
}

func NewVisitorServiceMock() *VisitorServiceMock {
	return &VisitorServiceMock{}
}

func (m *VisitorServiceMock) List(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Visitor), args.Error(1)
}

func (m *VisitorServiceMock) GetByID(ctx context.Context, id int) (*model.Visitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Visitor), args.Error(1)
}

func (m *VisitorServiceMock) GetDetail(ctx context.Context, id int) (*model.VisitorDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VisitorDetail), args.Error(1)
}

func (m *VisitorServiceMock) Create(ctx context.Context, params model.VisitorParams) (*model.Visitor, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Visitor), args.Error(1)
}

func (m *VisitorServiceMock) Update(ctx context.Context, id int, params model.VisitorParams) (*model.Visitor, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Visitor), args.Error(1)
}

func (m *VisitorServiceMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
