package repository

import (
	"context"
	"errors"

	"teachassist/internal/database"
	"teachassist/internal/domain/resource"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ResourceRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]resource.Resource, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (resource.Resource, error)
	Create(ctx context.Context, res resource.Resource) (resource.Resource, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

const resourceColumns = `id, user_id, title, description, type,
	COALESCE(url, ''), COALESCE(file_path, ''), COALESCE(file_type, ''), COALESCE(file_size, 0),
	created_at`

type PostgresResourceRepository struct {
	db database.DB
}

func NewPostgresResourceRepository(db database.DB) *PostgresResourceRepository {
	return &PostgresResourceRepository{db: db}
}

var _ ResourceRepository = (*PostgresResourceRepository)(nil)

func (r *PostgresResourceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]resource.Resource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resourceColumns+` FROM resources
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resource.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResourceRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (resource.Resource, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	res, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resource.Resource{}, resource.ErrNotFound
		}
		return resource.Resource{}, err
	}
	return res, nil
}

func (r *PostgresResourceRepository) Create(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO resources (id, user_id, title, description, type, url, file_path, file_type, file_size)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, 0))
		 RETURNING `+resourceColumns,
		res.ID, res.UserID, res.Title, res.Description, string(res.Type),
		res.URL, res.FilePath, res.FileType, res.FileSize,
	)
	return scanResource(row)
}

func (r *PostgresResourceRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM resources WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (r *PostgresResourceRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM resources WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanResource(row database.Row) (resource.Resource, error) {
	var res resource.Resource
	var typ string
	err := row.Scan(
		&res.ID, &res.UserID, &res.Title, &res.Description, &typ,
		&res.URL, &res.FilePath, &res.FileType, &res.FileSize,
		&res.CreatedAt,
	)
	if err != nil {
		return resource.Resource{}, err
	}
	res.Type = resource.Type(typ)
	return res, nil
}
