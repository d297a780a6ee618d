package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gin-event-registration/internal/model"
	apperrors "go-gin-event-registration/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, title, status, description, start_at, location, end_at,
		price, visitor_limit, created_at, updated_at`

var eventSortable = map[string]string{
	"id":            "id",
	"title":         "title",
	"status":        "status",
	"description":   "description",
	"start_at":      "start_at",
	"location":      "location",
	"end_at":        "end_at",
	"price":         "price",
	"visitor_limit": "visitor_limit",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

type EventRepository interface {
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	ListOpenForRegistration(ctx context.Context) ([]*model.Event, error)
	ListByVisitorID(ctx context.Context, visitorID int) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	GetIncome(ctx context.Context, id int) (model.EventIncome, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	Create(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.EventStatus) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func scanEvent(row pgx.Row, event *model.Event) error {
	return row.Scan(
		&event.ID,
		&event.Title,
		&event.Status,
		&event.Description,
		&event.StartAt,
		&event.Location,
		&event.EndAt,
		&event.Price,
		&event.VisitorLimit,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func collectEvents(rows pgx.Rows) ([]*model.Event, error) {
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	q := newListQuery("SELECT "+eventColumns+" FROM events", eventSortable, "id ASC")
	if filter.VisitorID != nil {
		q.Where("EXISTS (SELECT 1 FROM registrations r WHERE r.event_id = events.id AND r.visitor_id = %s)", *filter.VisitorID)
	}
	q.Search(filter.Search, "title", "description", "location")
	if filter.Status != "" {
		q.Where("status = %s", filter.Status)
	}

	query, args := q.SQL(filter.ListParams)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) ListOpenForRegistration(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status <> ALL($1)
		ORDER BY start_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, closedEventStatuses())
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// closedEventStatuses lists the statuses that refuse new registrations.
func closedEventStatuses() []string {
	closed := make([]string, 0, len(model.EventStatuses))
	for _, status := range model.EventStatuses {
		if !status.AcceptsRegistrations() {
			closed = append(closed, string(status))
		}
	}
	return closed
}

func (r *EventRepositoryImpl) ListByVisitorID(ctx context.Context, visitorID int) ([]*model.Event, error) {
	query := `
		SELECT e.id, e.title, e.status, e.description, e.start_at, e.location, e.end_at,
		       e.price, e.visitor_limit, e.created_at, e.updated_at
		FROM events e
		JOIN registrations r ON r.event_id = e.id
		WHERE r.visitor_id = $1
		ORDER BY e.id ASC
	`
	rows, err := r.pool.Query(ctx, query, visitorID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, id), &event)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE
	`

	var event model.Event
	err := scanEvent(tx.QueryRow(ctx, query, id), &event)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) GetIncome(ctx context.Context, id int) (model.EventIncome, error) {
	query := `
		SELECT COALESCE(SUM(COALESCE(billed_amount, 0) - COALESCE(refund_amount, 0)), 0),
		       COALESCE(SUM(COALESCE(price, 0)), 0)
		FROM registrations
		WHERE event_id = $1
	`

	var income model.EventIncome
	err := r.pool.QueryRow(ctx, query, id).Scan(&income.TotalIncome, &income.ExpectedIncome)
	if err != nil {
		return model.EventIncome{}, fmt.Errorf("failed to sum event income: %w", err)
	}
	return income, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (title, status, description, start_at, location, end_at, price, visitor_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	err := scanEvent(tx.QueryRow(ctx, query,
		event.Title, event.Status, event.Description, event.StartAt,
		event.Location, event.EndAt, event.Price, event.VisitorLimit,
	), event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error) {
	query := `
		UPDATE events
		SET title = $1, status = $2, description = $3, start_at = $4, location = $5,
		    end_at = $6, price = $7, visitor_limit = $8, updated_at = $9
		WHERE id = $10
		RETURNING ` + eventColumns

	var updated model.Event
	err := scanEvent(tx.QueryRow(ctx, query,
		event.Title, event.Status, event.Description, event.StartAt, event.Location,
		event.EndAt, event.Price, event.VisitorLimit, time.Now().UTC(), event.ID,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &updated, nil
}

func (r *EventRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.EventStatus) error {
	query := `
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// Delete removes the event; registrations go with it through ON DELETE CASCADE.
func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
