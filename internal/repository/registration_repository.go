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

const registrationColumns = `r.id, r.visitor_id, r.event_id, r.status, r.price, r.billed_amount,
		r.refund_amount, r.billed_at, r.refunded_at, r.created_at, r.updated_at`

const registrationListBase = `SELECT ` + registrationColumns + `, e.title, v.first_name || ' ' || v.last_name
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		JOIN visitors v ON v.id = r.visitor_id`

var registrationSortable = map[string]string{
	"id":            "r.id",
	"visitor_id":    "r.visitor_id",
	"event_id":      "r.event_id",
	"status":        "r.status",
	"price":         "r.price",
	"billed_amount": "r.billed_amount",
	"refund_amount": "r.refund_amount",
	"billed_at":     "r.billed_at",
	"refunded_at":   "r.refunded_at",
	"created_at":    "r.created_at",
	"updated_at":    "r.updated_at",
	"event_title":   "e.title",
	"visitor_name":  "v.last_name",
}

type RegistrationRepository interface {
	List(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error)
	FindByID(ctx context.Context, id int) (*model.Registration, error)
	ListEventIDsByVisitorID(ctx context.Context, visitorID int) ([]int, error)
	// Delete removes the registration and returns the event it belonged to.
	Delete(ctx context.Context, id int) (int, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Registration, error)
	ExistsForPair(ctx context.Context, tx pgx.Tx, eventID, visitorID int) (bool, error)
	ListByEventIDForUpdate(ctx context.Context, tx pgx.Tx, eventID int) ([]*model.Registration, error)
	CountByEventAndStatus(ctx context.Context, tx pgx.Tx, eventID int, status model.RegistrationStatus) (int, error)
	Create(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error)
	Update(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.RegistrationStatus) error
}

type RegistrationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &RegistrationRepositoryImpl{
		pool: pool,
	}
}

func registrationFields(registration *model.Registration) []any {
	return []any{
		&registration.ID,
		&registration.VisitorID,
		&registration.EventID,
		&registration.Status,
		&registration.Price,
		&registration.BilledAmount,
		&registration.RefundAmount,
		&registration.BilledAt,
		&registration.RefundedAt,
		&registration.CreatedAt,
		&registration.UpdatedAt,
	}
}

func scanRegistration(row pgx.Row, registration *model.Registration) error {
	return row.Scan(registrationFields(registration)...)
}

// scanRegistrationWithNames also reads the joined event title and visitor name.
func scanRegistrationWithNames(row pgx.Row, registration *model.Registration) error {
	dest := append(registrationFields(registration), &registration.EventTitle, &registration.VisitorName)
	return row.Scan(dest...)
}

func (r *RegistrationRepositoryImpl) List(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error) {
	q := newListQuery(registrationListBase, registrationSortable, "r.id ASC")
	if filter.EventID != nil {
		q.Where("r.event_id = %s", *filter.EventID)
	}
	if filter.VisitorID != nil {
		q.Where("r.visitor_id = %s", *filter.VisitorID)
	}
	q.Search(filter.Search, "e.title", "v.first_name", "v.last_name")
	if filter.Status != "" {
		q.Where("r.status = %s", filter.Status)
	}

	query, args := q.SQL(filter.ListParams)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]*model.Registration, 0)
	for rows.Next() {
		var registration model.Registration
		if err := scanRegistrationWithNames(rows, &registration); err != nil {
			return nil, err
		}
		registrations = append(registrations, &registration)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registrations, nil
}

func (r *RegistrationRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Registration, error) {
	query := registrationListBase + ` WHERE r.id = $1`

	var registration model.Registration
	err := scanRegistrationWithNames(r.pool.QueryRow(ctx, query, id), &registration)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	return &registration, nil
}

func (r *RegistrationRepositoryImpl) ListEventIDsByVisitorID(ctx context.Context, visitorID int) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT event_id FROM registrations WHERE visitor_id = $1`, visitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *RegistrationRepositoryImpl) Delete(ctx context.Context, id int) (int, error) {
	var eventID int
	err := r.pool.QueryRow(ctx, `DELETE FROM registrations WHERE id = $1 RETURNING event_id`, id).Scan(&eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrRegistrationNotFound
		}
		return 0, err
	}

	return eventID, nil
}

func (r *RegistrationRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations r
		WHERE r.id = $1
		FOR UPDATE
	`

	var registration model.Registration
	err := scanRegistration(tx.QueryRow(ctx, query, id), &registration)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	return &registration, nil
}

func (r *RegistrationRepositoryImpl) ExistsForPair(ctx context.Context, tx pgx.Tx, eventID, visitorID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM registrations WHERE event_id = $1 AND visitor_id = $2)`

	var exists bool
	if err := tx.QueryRow(ctx, query, eventID, visitorID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByEventIDForUpdate locks and returns every registration of the event.
func (r *RegistrationRepositoryImpl) ListByEventIDForUpdate(ctx context.Context, tx pgx.Tx, eventID int) ([]*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations r
		WHERE r.event_id = $1
		ORDER BY r.id ASC
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]*model.Registration, 0)
	for rows.Next() {
		var registration model.Registration
		if err := scanRegistration(rows, &registration); err != nil {
			return nil, err
		}
		registrations = append(registrations, &registration)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registrations, nil
}

func (r *RegistrationRepositoryImpl) CountByEventAndStatus(ctx context.Context, tx pgx.Tx, eventID int, status model.RegistrationStatus) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2`

	var count int
	if err := tx.QueryRow(ctx, query, eventID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error) {
	query := `
		INSERT INTO registrations AS r (visitor_id, event_id, status, price)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + registrationColumns

	err := scanRegistration(tx.QueryRow(ctx, query,
		registration.VisitorID, registration.EventID, registration.Status, registration.Price,
	), registration)
	if err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	return registration, nil
}

func (r *RegistrationRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error) {
	query := `
		UPDATE registrations AS r
		SET status = $1, billed_amount = $2, refund_amount = $3, billed_at = $4,
		    refunded_at = $5, updated_at = $6
		WHERE r.id = $7
		RETURNING ` + registrationColumns

	var updated model.Registration
	err := scanRegistration(tx.QueryRow(ctx, query,
		registration.Status, registration.BilledAmount, registration.RefundAmount,
		registration.BilledAt, registration.RefundedAt, time.Now().UTC(), registration.ID,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	return &updated, nil
}

func (r *RegistrationRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.RegistrationStatus) error {
	query := `
		UPDATE registrations
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}

	return nil
}
