package repository

import (
	"context"
	"testing"
	"time"

	"go-gin-event-registration/internal/model"
	apperrors "go-gin-event-registration/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Create(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		tx, rollback := setupTestWithTransaction(t)
		defer rollback()

		desc := "Outdoor live show"
		start := time.Date(2030, 6, 1, 18, 0, 0, 0, time.UTC)
		event := &model.Event{
			Title:        "Summer Concert",
			Status:       model.EventStatusPlanning,
			Description:  &desc,
			StartAt:      start,
			Location:     "Park",
			EndAt:        start.Add(3 * time.Hour),
			Price:        1500,
			VisitorLimit: intPtr(100),
		}

		created, err := repo.Create(ctx, tx, event)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Summer Concert", created.Title)
		assert.Equal(t, model.EventStatusPlanning, created.Status)
		require.NotNil(t, created.Description)
		assert.Equal(t, "Outdoor live show", *created.Description)
		assert.True(t, start.Equal(created.StartAt))
		assert.Equal(t, 1500, created.Price)
		require.NotNil(t, created.VisitorLimit)
		assert.Equal(t, 100, *created.VisitorLimit)
		assert.NotZero(t, created.CreatedAt)
	})
}

func TestEventRepository_List(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("EmptyList", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		events, err := repo.List(ctx, model.EventFilter{})

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("NaturalOrderByID", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		id1 := createTestEvent(t, "Bravo", 10, "planning")
		id2 := createTestEvent(t, "Alpha", 20, "planning")

		events, err := repo.List(ctx, model.EventFilter{})

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, id1, events[0].ID)
		assert.Equal(t, id2, events[1].ID)
	})

	t.Run("SortByTitleDesc", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		createTestEvent(t, "Alpha", 10, "planning")
		createTestEvent(t, "Charlie", 10, "planning")
		createTestEvent(t, "Bravo", 10, "planning")

		events, err := repo.List(ctx, model.EventFilter{
			ListParams: model.ListParams{SortBy: "title", SortDesc: true},
		})

		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "Charlie", events[0].Title)
		assert.Equal(t, "Bravo", events[1].Title)
		assert.Equal(t, "Alpha", events[2].Title)
	})

	t.Run("SearchAndStatus", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		createTestEvent(t, "Rock Night", 10, "planning")
		want := createTestEvent(t, "ROCK Festival", 10, "active")
		createTestEvent(t, "Jazz Evening", 10, "active")

		events, err := repo.List(ctx, model.EventFilter{
			ListParams: model.ListParams{Search: "rock", Status: "active"},
		})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, want, events[0].ID)
	})

	t.Run("ByVisitor", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		e1 := createTestEvent(t, "One", 10, "planning")
		createTestEvent(t, "Two", 10, "planning")
		v := createTestVisitor(t, "Ann", "Lee", "+100000001")
		createTestRegistration(t, e1, v, "unpaid", intPtr(10), nil, nil)

		events, err := repo.List(ctx, model.EventFilter{VisitorID: &v})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, e1, events[0].ID)
	})
}

func TestEventRepository_ListOpenForRegistration(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	planning := createTestEvent(t, "Planning", 0, "planning")
	active := createTestEvent(t, "Active", 0, "active")
	createTestEvent(t, "Ready", 0, "ready")
	createTestEvent(t, "Completed", 0, "completed")
	createTestEvent(t, "Cancelled", 0, "cancelled")

	events, err := repo.ListOpenForRegistration(ctx)

	require.NoError(t, err)
	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []int{planning, active}, ids)
}

func TestClosedEventStatuses(t *testing.T) {
	assert.ElementsMatch(t, []string{"ready", "completed", "cancelled"}, closedEventStatuses())
}

func TestEventRepository_FindByID(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Find Me", 10, "planning")

		found, err := repo.FindByID(ctx, eventID)

		require.NoError(t, err)
		assert.Equal(t, eventID, found.ID)
		assert.Equal(t, "Find Me", found.Title)
		assert.Nil(t, found.VisitorLimit)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByID(ctx, 99999)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventRepository_Update(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		tx, rollback := setupTestWithTransaction(t)
		defer rollback()

		eventID := createTestEvent(t, "Old", 10, "planning")
		event, err := repo.FindByIDWithLock(ctx, tx, eventID)
		require.NoError(t, err)

		event.Title = "New"
		event.Price = 99
		event.VisitorLimit = intPtr(5)
		updated, err := repo.Update(ctx, tx, event)

		require.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, 99, updated.Price)
		require.NotNil(t, updated.VisitorLimit)
		assert.Equal(t, 5, *updated.VisitorLimit)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		tx, rollback := setupTestWithTransaction(t)
		defer rollback()

		_, err := repo.Update(ctx, tx, &model.Event{ID: 99999, Title: "x", Status: model.EventStatusPlanning})

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventRepository_UpdateStatus(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		tx, rollback := setupTestWithTransaction(t)
		defer rollback()

		eventID := createTestEvent(t, "Status", 10, "planning")

		require.NoError(t, repo.UpdateStatus(ctx, tx, eventID, model.EventStatusReady))

		event, err := repo.FindByIDWithLock(ctx, tx, eventID)
		require.NoError(t, err)
		assert.Equal(t, model.EventStatusReady, event.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		tx, rollback := setupTestWithTransaction(t)
		defer rollback()

		err := repo.UpdateStatus(ctx, tx, 99999, model.EventStatusReady)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventRepository_GetIncome(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Income", 100, "active")
		v1 := createTestVisitor(t, "A", "A", "+100000001")
		v2 := createTestVisitor(t, "B", "B", "+100000002")
		v3 := createTestVisitor(t, "C", "C", "+100000003")
		createTestRegistration(t, eventID, v1, "paid", intPtr(100), intPtr(100), nil)
		createTestRegistration(t, eventID, v2, "refunded", intPtr(100), intPtr(100), intPtr(40))
		createTestRegistration(t, eventID, v3, "unpaid", nil, nil, nil)

		income, err := repo.GetIncome(ctx, eventID)

		require.NoError(t, err)
		assert.Equal(t, 160, income.TotalIncome)
		assert.Equal(t, 200, income.ExpectedIncome)
	})

	t.Run("NoRegistrations", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Empty", 100, "active")

		income, err := repo.GetIncome(ctx, eventID)

		require.NoError(t, err)
		assert.Equal(t, model.EventIncome{}, income)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	repo := NewEventRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("Success - Cascades Registrations", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Delete", 10, "planning")
		visitorID := createTestVisitor(t, "A", "A", "+100000001")
		createTestRegistration(t, eventID, visitorID, "unpaid", intPtr(10), nil, nil)

		require.NoError(t, repo.Delete(ctx, eventID))

		_, err := repo.FindByID(ctx, eventID)
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		assertRowCount(t, "registrations", 0)
		assertRowCount(t, "visitors", 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		err := repo.Delete(ctx, 99999)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}
