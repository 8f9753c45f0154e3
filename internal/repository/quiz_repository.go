package repository

import (
	"context"
	"encoding/json"
	"errors"

	"teachassist/internal/database"
	"teachassist/internal/domain/quiz"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type QuizRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]quiz.Quiz, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (quiz.Quiz, error)
	Create(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type PostgresQuizRepository struct {
	db database.DB
}

func NewPostgresQuizRepository(db database.DB) *PostgresQuizRepository {
	return &PostgresQuizRepository{db: db}
}

var _ QuizRepository = (*PostgresQuizRepository)(nil)

func (r *PostgresQuizRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]quiz.Quiz, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, topic, questions, created_at FROM quizzes
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]quiz.Quiz, 0)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresQuizRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (quiz.Quiz, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, topic, questions, created_at FROM quizzes
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	q, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, err
	}
	return q, nil
}

func (r *PostgresQuizRepository) Create(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	payload, err := json.Marshal(q.Questions)
	if err != nil {
		return quiz.Quiz{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO quizzes (id, user_id, topic, questions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, topic, questions, created_at`,
		q.ID, q.UserID, q.Topic, payload,
	)
	return scanQuiz(row)
}

func (r *PostgresQuizRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanQuiz(row database.Row) (quiz.Quiz, error) {
	var q quiz.Quiz
	var payload []byte
	if err := row.Scan(&q.ID, &q.UserID, &q.Topic, &payload, &q.CreatedAt); err != nil {
		return quiz.Quiz{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &q.Questions); err != nil {
			return quiz.Quiz{}, err
		}
	}
	return q, nil
}
