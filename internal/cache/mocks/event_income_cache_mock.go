package mocks

import (
	"context"

	"go-gin-event-registration/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventIncomeCacheMock struct {
	mock.Mock
}

func NewEventIncomeCacheMock() *EventIncomeCacheMock {
	return &EventIncomeCacheMock{}
}

func (m *EventIncomeCacheMock) Get(ctx context.Context, eventID int) (model.EventIncome, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.EventIncome), args.Error(1)
}

func (m *EventIncomeCacheMock) Version(ctx context.Context, eventID int) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EventIncomeCacheMock) Set(ctx context.Context, eventID int, version int64, income model.EventIncome) error {
	args := m.Called(ctx, eventID, version, income)
	return args.Error(0)
}

func (m *EventIncomeCacheMock) Invalidate(ctx context.Context, eventIDs ...int) error {
	args := m.Called(ctx, eventIDs)
	return args.Error(0)
}
