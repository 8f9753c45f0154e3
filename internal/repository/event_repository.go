package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teachassist/internal/database"
	"teachassist/internal/domain/event"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EventListFilter narrows owner-scoped event reads. From/To bound start_time;
// results are always ordered by start_time ascending.
type EventListFilter struct {
	IncompleteOnly bool
	From           *time.Time
	To             *time.Time
	Limit          int
}

type EventRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, f EventListFilter) ([]event.Event, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (event.Event, error)
	Create(ctx context.Context, e event.Event) (event.Event, error)
	Update(ctx context.Context, e event.Event) (event.Event, error)
	MarkCompleted(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

const eventColumns = `id, user_id, title, description, start_time, end_time, category, completed, created_at, updated_at`

type PostgresEventRepository struct {
	db database.DB
}

func NewPostgresEventRepository(db database.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

var _ EventRepository = (*PostgresEventRepository)(nil)

func (r *PostgresEventRepository) ListByUser(ctx context.Context, userID uuid.UUID, f EventListFilter) ([]event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE user_id = $1`
	args := []any{userID}

	if f.IncompleteOnly {
		query += ` AND completed = FALSE`
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(` AND start_time >= $%d`, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(` AND start_time <= $%d`, len(args))
	}
	query += ` ORDER BY start_time ASC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]event.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (event.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM calendar_events WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}
	return e, nil
}

func (r *PostgresEventRepository) Create(ctx context.Context, e event.Event) (event.Event, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO calendar_events (id, user_id, title, description, start_time, end_time, category, completed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		 RETURNING `+eventColumns,
		e.ID, e.UserID, e.Title, e.Description, e.StartTime, e.EndTime, string(e.Category),
	)
	return scanEvent(row)
}

func (r *PostgresEventRepository) Update(ctx context.Context, e event.Event) (event.Event, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE calendar_events SET
			title = $3,
			description = $4,
			start_time = $5,
			end_time = $6,
			category = $7,
			updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+eventColumns,
		e.ID, e.UserID, e.Title, e.Description, e.StartTime, e.EndTime, string(e.Category),
	)
	updated, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}
	return updated, nil
}

func (r *PostgresEventRepository) MarkCompleted(ctx context.Context, id, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE calendar_events SET completed = TRUE, updated_at = now()
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (r *PostgresEventRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM calendar_events WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (r *PostgresEventRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM calendar_events WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanEvent(row database.Row) (event.Event, error) {
	var e event.Event
	var category string
	err := row.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&category, &e.Completed, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, err
	}
	e.Category = event.Category(category)
	return e, nil
}
