package repository

import (
	"context"
	"errors"

	"teachassist/internal/database"
	"teachassist/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, full_name, school_name, subjects_taught,
	grade_levels, years_of_experience, teaching_style, interests,
	reminder_lead_minutes, notification_style, onboarding_completed,
	deleted_at, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, reminder_lead_minutes, notification_style)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash,
		u.Notifications.ReminderLeadMinutes, string(u.Notifications.Style),
	)
	return err
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND deleted_at IS NULL`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, u user.User) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET
			full_name = $2,
			school_name = $3,
			subjects_taught = $4,
			grade_levels = $5,
			years_of_experience = $6,
			teaching_style = $7,
			interests = $8,
			reminder_lead_minutes = $9,
			notification_style = $10,
			onboarding_completed = $11,
			updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		u.ID, u.FullName, u.SchoolName, u.SubjectsTaught, u.GradeLevels,
		u.YearsOfExperience, u.TeachingStyle, u.Interests,
		u.Notifications.ReminderLeadMinutes, string(u.Notifications.Style),
		u.OnboardingCompleted,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

// SoftDelete purges the user's rows and marks the identity deleted in one
// transaction. The users row stays so the email remains reserved.
func (r *PostgresUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, q := range []string{
		`DELETE FROM calendar_events WHERE user_id = $1`,
		`DELETE FROM resources WHERE user_id = $1`,
		`DELETE FROM quizzes WHERE user_id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return err
		}
	}

	n, err := tx.Exec(ctx,
		`UPDATE users SET
			full_name = '',
			school_name = '',
			subjects_taught = '{}',
			grade_levels = '{}',
			years_of_experience = 0,
			teaching_style = '',
			interests = '{}',
			onboarding_completed = FALSE,
			deleted_at = now(),
			updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var style string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.SchoolName,
		&u.SubjectsTaught, &u.GradeLevels, &u.YearsOfExperience,
		&u.TeachingStyle, &u.Interests,
		&u.Notifications.ReminderLeadMinutes, &style,
		&u.OnboardingCompleted, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Notifications.Style = user.NotificationStyle(style)
	return u, nil
}
