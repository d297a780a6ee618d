package repository

import (
	"context"
	"errors"
	"time"

	"go-gin-event-registration/internal/model"
	apperrors "go-gin-event-registration/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const visitorColumns = `id, first_name, last_name, phone, email, created_at, updated_at`

var visitorSortable = map[string]string{
	"id":         "id",
	"first_name": "first_name",
	"last_name":  "last_name",
	"phone":      "phone",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type VisitorRepository interface {
	Create(ctx context.Context, visitor *model.Visitor) (*model.Visitor, error)
	List(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Visitor, error)
	FindByID(ctx context.Context, id int) (*model.Visitor, error)
	Update(ctx context.Context, visitor *model.Visitor) (*model.Visitor, error)
	Delete(ctx context.Context, id int) error
}

type VisitorRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewVisitorRepository(pool *pgxpool.Pool) VisitorRepository {
	return &VisitorRepositoryImpl{
		pool: pool,
	}
}

func scanVisitor(row pgx.Row, visitor *model.Visitor) error {
	return row.Scan(
		&visitor.ID,
		&visitor.FirstName,
		&visitor.LastName,
		&visitor.Phone,
		&visitor.Email,
		&visitor.CreatedAt,
		&visitor.UpdatedAt,
	)
}

func collectVisitors(rows pgx.Rows) ([]*model.Visitor, error) {
	defer rows.Close()

	visitors := make([]*model.Visitor, 0)
	for rows.Next() {
		var visitor model.Visitor
		if err := scanVisitor(rows, &visitor); err != nil {
			return nil, err
		}
		visitors = append(visitors, &visitor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return visitors, nil
}

// Create inserts the visitor. Duplicate phone or email fails on the unique constraint.
func (r *VisitorRepositoryImpl) Create(ctx context.Context, visitor *model.Visitor) (*model.Visitor, error) {
	query := `
		INSERT INTO visitors (first_name, last_name, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + visitorColumns

	err := scanVisitor(r.pool.QueryRow(ctx, query,
		visitor.FirstName, visitor.LastName, visitor.Phone, visitor.Email,
	), visitor)
	if err != nil {
		return nil, err
	}

	return visitor, nil
}

func (r *VisitorRepositoryImpl) List(ctx context.Context, filter model.VisitorFilter) ([]*model.Visitor, error) {
	q := newListQuery("SELECT "+visitorColumns+" FROM visitors", visitorSortable, "id ASC")
	if filter.EventID != nil {
		q.Where("EXISTS (SELECT 1 FROM registrations r WHERE r.visitor_id = visitors.id AND r.event_id = %s)", *filter.EventID)
	}
	q.Search(filter.Search, "first_name", "last_name", "email")

	query, args := q.SQL(filter.ListParams)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectVisitors(rows)
}

func (r *VisitorRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Visitor, error) {
	query := `
		SELECT v.id, v.first_name, v.last_name, v.phone, v.email, v.created_at, v.updated_at
		FROM visitors v
		JOIN registrations r ON r.visitor_id = v.id
		WHERE r.event_id = $1
		ORDER BY v.id ASC
	`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	return collectVisitors(rows)
}

func (r *VisitorRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Visitor, error) {
	query := `
		SELECT ` + visitorColumns + `
		FROM visitors
		WHERE id = $1
	`

	var visitor model.Visitor
	err := scanVisitor(r.pool.QueryRow(ctx, query, id), &visitor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVisitorNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

func (r *VisitorRepositoryImpl) Update(ctx context.Context, visitor *model.Visitor) (*model.Visitor, error) {
	query := `
		UPDATE visitors
		SET first_name = $1, last_name = $2, phone = $3, email = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + visitorColumns

	var updated model.Visitor
	err := scanVisitor(r.pool.QueryRow(ctx, query,
		visitor.FirstName, visitor.LastName, visitor.Phone, visitor.Email,
		time.Now().UTC(), visitor.ID,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVisitorNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *VisitorRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM visitors WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrVisitorNotFound
	}

	return nil
}
