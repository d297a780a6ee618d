package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolveEventStatus(t *testing.T) {
	now := fixedNow
	hour := time.Hour

	tests := []struct {
		name    string
		status  model.EventStatus
		startAt time.Time
		endAt   time.Time
		want    model.EventStatus
	}{
		{"Start after end forces cancelled", model.EventStatusActive, now.Add(2 * hour), now.Add(hour), model.EventStatusCancelled},
		{"Start after end in the past forces cancelled", model.EventStatusPlanning, now.Add(-hour), now.Add(-2 * hour), model.EventStatusCancelled},
		{"Future event keeps status", model.EventStatusPlanning, now.Add(hour), now.Add(2 * hour), model.EventStatusPlanning},
		{"Future event keeps ready", model.EventStatusReady, now.Add(hour), now.Add(2 * hour), model.EventStatusReady},
		{"Started event becomes active", model.EventStatusPlanning, now.Add(-hour), now.Add(hour), model.EventStatusActive},
		{"Start equal to now is active", model.EventStatusReady, now, now.Add(hour), model.EventStatusActive},
		{"Finished event becomes completed", model.EventStatusPlanning, now.Add(-2 * hour), now.Add(-hour), model.EventStatusCompleted},
		{"End equal to now is completed", model.EventStatusActive, now.Add(-hour), now, model.EventStatusCompleted},
		{"Cancelled stays cancelled", model.EventStatusCancelled, now.Add(-2 * hour), now.Add(-hour), model.EventStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.ResolveEventStatus(tt.status, tt.startAt, tt.endAt, now))
		})
	}
}

func TestCascadeRegistrationStatus(t *testing.T) {
	tests := []struct {
		name        string
		eventStatus model.EventStatus
		reg         model.Registration
		want        model.RegistrationStatus
		changed     bool
	}{
		{
			name:        "Active and fully billed completes",
			eventStatus: model.EventStatusActive,
			reg:         model.Registration{Status: model.RegistrationStatusPaid, Price: intPtr(100), BilledAmount: intPtr(100)},
			want:        model.RegistrationStatusCompleted,
			changed:     true,
		},
		{
			name:        "Completed and under billed cancels",
			eventStatus: model.EventStatusCompleted,
			reg:         model.Registration{Status: model.RegistrationStatusUnpaid, Price: intPtr(100), BilledAmount: intPtr(50)},
			want:        model.RegistrationStatusCancelled,
			changed:     true,
		},
		{
			name:        "Null billed counts as zero",
			eventStatus: model.EventStatusActive,
			reg:         model.Registration{Status: model.RegistrationStatusUnpaid, Price: intPtr(100)},
			want:        model.RegistrationStatusCancelled,
			changed:     true,
		},
		{
			name:        "Null billed on free event completes",
			eventStatus: model.EventStatusActive,
			reg:         model.Registration{Status: model.RegistrationStatusPaid, Price: intPtr(0)},
			want:        model.RegistrationStatusCompleted,
			changed:     true,
		},
		{
			name:        "Over billed is unchanged",
			eventStatus: model.EventStatusActive,
			reg:         model.Registration{Status: model.RegistrationStatusPaid, Price: intPtr(100), BilledAmount: intPtr(150)},
			want:        model.RegistrationStatusPaid,
			changed:     false,
		},
		{
			name:        "Already completed is unchanged",
			eventStatus: model.EventStatusActive,
			reg:         model.Registration{Status: model.RegistrationStatusCompleted, Price: intPtr(10), BilledAmount: intPtr(10)},
			want:        model.RegistrationStatusCompleted,
			changed:     false,
		},
		{
			name:        "Cancelled event cancels everything",
			eventStatus: model.EventStatusCancelled,
			reg:         model.Registration{Status: model.RegistrationStatusPaid, Price: intPtr(100), BilledAmount: intPtr(100)},
			want:        model.RegistrationStatusCancelled,
			changed:     true,
		},
		{
			name:        "Planning event leaves registrations alone",
			eventStatus: model.EventStatusPlanning,
			reg:         model.Registration{Status: model.RegistrationStatusUnpaid, Price: intPtr(100)},
			want:        model.RegistrationStatusUnpaid,
			changed:     false,
		},
		{
			name:        "Ready event leaves registrations alone",
			eventStatus: model.EventStatusReady,
			reg:         model.Registration{Status: model.RegistrationStatusPaid, Price: intPtr(100), BilledAmount: intPtr(100)},
			want:        model.RegistrationStatusPaid,
			changed:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := tt.reg
			got, changed := service.CascadeRegistrationStatus(tt.eventStatus, &reg)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestEventStatusAfterRegistration(t *testing.T) {
	tests := []struct {
		name      string
		event     model.Event
		status    model.RegistrationStatus
		paidCount int
		want      model.EventStatus
		changed   bool
	}{
		{"Limit reached makes ready", model.Event{Status: model.EventStatusPlanning, VisitorLimit: intPtr(2)}, model.RegistrationStatusPaid, 2, model.EventStatusReady, true},
		{"Limit exceeded makes ready", model.Event{Status: model.EventStatusActive, VisitorLimit: intPtr(2)}, model.RegistrationStatusPaid, 3, model.EventStatusReady, true},
		{"Below limit unchanged", model.Event{Status: model.EventStatusPlanning, VisitorLimit: intPtr(2)}, model.RegistrationStatusPaid, 1, model.EventStatusPlanning, false},
		{"No limit unchanged", model.Event{Status: model.EventStatusPlanning}, model.RegistrationStatusPaid, 100, model.EventStatusPlanning, false},
		{"Zero limit unchanged", model.Event{Status: model.EventStatusPlanning, VisitorLimit: intPtr(0)}, model.RegistrationStatusPaid, 100, model.EventStatusPlanning, false},
		{"Already ready unchanged", model.Event{Status: model.EventStatusReady, VisitorLimit: intPtr(1)}, model.RegistrationStatusPaid, 1, model.EventStatusReady, false},
		{"Refund reopens planning", model.Event{Status: model.EventStatusReady, VisitorLimit: intPtr(1)}, model.RegistrationStatusRefunded, 0, model.EventStatusPlanning, true},
		{"Refund on planning unchanged", model.Event{Status: model.EventStatusPlanning}, model.RegistrationStatusRefunded, 0, model.EventStatusPlanning, false},
		{"Unpaid unchanged", model.Event{Status: model.EventStatusActive, VisitorLimit: intPtr(1)}, model.RegistrationStatusUnpaid, 5, model.EventStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := tt.event
			got, changed := service.EventStatusAfterRegistration(&event, tt.status, tt.paidCount)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestStatusSynchronizer_AfterEventWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Active Cascades", func(t *testing.T) {
		d := setupMock(t)
		event := &model.Event{ID: 1, Status: model.EventStatusActive}
		regs := []*model.Registration{
			{ID: 10, Status: model.RegistrationStatusPaid, Price: intPtr(100), BilledAmount: intPtr(100)},
			{ID: 11, Status: model.RegistrationStatusUnpaid, Price: intPtr(100)},
			{ID: 12, Status: model.RegistrationStatusCompleted, Price: intPtr(100), BilledAmount: intPtr(100)},
		}

		d.registrationRepo.On("ListByEventIDForUpdate", mock.Anything, d.tx, 1).Return(regs, nil).Once()
		d.registrationRepo.On("UpdateStatus", mock.Anything, d.tx, 10, model.RegistrationStatusCompleted).Return(nil).Once()
		d.registrationRepo.On("UpdateStatus", mock.Anything, d.tx, 11, model.RegistrationStatusCancelled).Return(nil).Once()

		err := d.sync.AfterEventWrite(ctx, d.tx, event)

		require.NoError(t, err)
		assert.Equal(t, model.RegistrationStatusCompleted, regs[0].Status)
		assert.Equal(t, model.RegistrationStatusCancelled, regs[1].Status)
	})

	t.Run("Success - Planning Skips", func(t *testing.T) {
		d := setupMock(t)

		err := d.sync.AfterEventWrite(ctx, d.tx, &model.Event{ID: 1, Status: model.EventStatusPlanning})

		require.NoError(t, err)
		d.registrationRepo.AssertNotCalled(t, "ListByEventIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed - UpdateStatus", func(t *testing.T) {
		d := setupMock(t)
		regs := []*model.Registration{{ID: 10, Status: model.RegistrationStatusPaid}}
		boom := errors.New("boom")

		d.registrationRepo.On("ListByEventIDForUpdate", mock.Anything, d.tx, 1).Return(regs, nil).Once()
		d.registrationRepo.On("UpdateStatus", mock.Anything, d.tx, 10, model.RegistrationStatusCancelled).Return(boom).Once()

		err := d.sync.AfterEventWrite(ctx, d.tx, &model.Event{ID: 1, Status: model.EventStatusCancelled})

		assert.ErrorIs(t, err, boom)
	})
}

func TestStatusSynchronizer_AfterRegistrationWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Paid Reaches Limit", func(t *testing.T) {
		d := setupMock(t)
		event := &model.Event{ID: 1, Status: model.EventStatusPlanning, VisitorLimit: intPtr(2)}

		d.eventRepo.On("FindByIDWithLock", mock.Anything, d.tx, 1).Return(event, nil).Once()
		d.registrationRepo.On("CountByEventAndStatus", mock.Anything, d.tx, 1, model.RegistrationStatusPaid).Return(2, nil).Once()
		d.eventRepo.On("UpdateStatus", mock.Anything, d.tx, 1, model.EventStatusReady).Return(nil).Once()

		err := d.sync.AfterRegistrationWrite(ctx, d.tx, &model.Registration{ID: 5, EventID: 1, Status: model.RegistrationStatusPaid})

		require.NoError(t, err)
	})

	t.Run("Success - Refund Reopens Event", func(t *testing.T) {
		d := setupMock(t)
		event := &model.Event{ID: 1, Status: model.EventStatusReady}

		d.eventRepo.On("FindByIDWithLock", mock.Anything, d.tx, 1).Return(event, nil).Once()
		d.eventRepo.On("UpdateStatus", mock.Anything, d.tx, 1, model.EventStatusPlanning).Return(nil).Once()

		err := d.sync.AfterRegistrationWrite(ctx, d.tx, &model.Registration{ID: 5, EventID: 1, Status: model.RegistrationStatusRefunded})

		require.NoError(t, err)
	})

	t.Run("Success - Unpaid Does Nothing", func(t *testing.T) {
		d := setupMock(t)

		err := d.sync.AfterRegistrationWrite(ctx, d.tx, &model.Registration{ID: 5, EventID: 1, Status: model.RegistrationStatusUnpaid})

		require.NoError(t, err)
	})

	t.Run("Success - Paid Without Limit", func(t *testing.T) {
		d := setupMock(t)
		event := &model.Event{ID: 1, Status: model.EventStatusPlanning}

		d.eventRepo.On("FindByIDWithLock", mock.Anything, d.tx, 1).Return(event, nil).Once()

		err := d.sync.AfterRegistrationWrite(ctx, d.tx, &model.Registration{ID: 5, EventID: 1, Status: model.RegistrationStatusPaid})

		require.NoError(t, err)
	})
}
