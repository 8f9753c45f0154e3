package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teachassist/internal/database"
	"teachassist/internal/domain/event"
	"teachassist/internal/domain/quiz"
	"teachassist/internal/domain/resource"
)

// fakeDB records the last statement so tests can pin the owner predicate each
// query must carry. scanErr drives QueryRow results; execN drives Exec's
// rows-affected count.
type fakeDB struct {
	lastQuery string
	lastArgs  []any
	execN     int64
	scanErr   error
}

func (f *fakeDB) record(query string, args []any) {
	f.lastQuery = query
	f.lastArgs = args
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) SQLDB() *sql.DB             { return nil }

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.record(query, args)
	return f.execN, nil
}

func (f *fakeDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	f.record(query, args)
	return emptyRows{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	f.record(query, args)
	return fakeRow{err: f.scanErr}
}

func (f *fakeDB) Begin(context.Context) (database.Tx, error) {
	return nil, errors.New("not supported")
}

type emptyRows struct{}

func (emptyRows) Close()            {}
func (emptyRows) Next() bool        { return false }
func (emptyRows) Scan(...any) error { return nil }
func (emptyRows) Err() error        { return nil }

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(...any) error { return r.err }

// requireOwnerPredicate asserts the statement filters on user_id at the given
// placeholder and that the owner's id rides in the matching argument slot.
func requireOwnerPredicate(t *testing.T, db *fakeDB, pos int, userID uuid.UUID) {
	t.Helper()
	want := fmt.Sprintf("user_id = $%d", pos)
	if !strings.Contains(db.lastQuery, want) {
		t.Fatalf("query missing %q:\n%s", want, db.lastQuery)
	}
	if len(db.lastArgs) < pos || db.lastArgs[pos-1] != userID {
		t.Fatalf("arg $%d = %v, want owner %s", pos, db.lastArgs, userID)
	}
}

func TestEventRepositoryScopedToOwner(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	t.Run("ListByUser", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewPostgresEventRepository(db)
		if _, err := repo.ListByUser(context.Background(), owner, EventListFilter{}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		requireOwnerPredicate(t, db, 1, owner)
	})

	t.Run("GetByID other owner", func(t *testing.T) {
		db := &fakeDB{scanErr: pgx.ErrNoRows}
		repo := NewPostgresEventRepository(db)
		if _, err := repo.GetByID(context.Background(), id, owner); !errors.Is(err, event.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		requireOwnerPredicate(t, db, 2, owner)
	})

	t.Run("Update other owner", func(t *testing.T) {
		db := &fakeDB{scanErr: pgx.ErrNoRows}
		repo := NewPostgresEventRepository(db)
		_, err := repo.Update(context.Background(), event.Event{ID: id, UserID: owner, Title: "t"})
		if !errors.Is(err, event.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		requireOwnerPredicate(t, db, 2, owner)
	})

	t.Run("MarkCompleted other owner", func(t *testing.T) {
		db := &fakeDB{execN: 0}
		repo := NewPostgresEventRepository(db)
		if err := repo.MarkCompleted(context.Background(), id, owner); !errors.Is(err, event.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		requireOwnerPredicate(t, db, 2, owner)
	})

	t.Run("Delete other owner", func(t *testing.T) {
		db := &fakeDB{execN: 0}
		repo := NewPostgresEventRepository(db)
		if err := repo.Delete(context.Background(), id, owner); !errors.Is(err, event.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		requireOwnerPredicate(t, db, 2, owner)
	})

	t.Run("CountByUser", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewPostgresEventRepository(db)
		if _, err := repo.CountByUser(context.Background(), owner); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		requireOwnerPredicate(t, db, 1, owner)
	})
}

func TestResourceRepositoryScopedToOwner(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	t.Run("ListByUser", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewPostgresResourceRepository(db)
		if _, err := repo.ListByUser(context.Background(), owner); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		requireOwnerPredicate(t, db, 1, owner)
	})

	t.Run("GetByID other owner", func(t *testing.T) {
		db := &fakeDB{scanErr: pgx.ErrNoRows}
		repo := NewPostgresResourceRepository(db)
		if _, err := repo.GetByID(context.Background(), id, owner); !errors.Is(err, resource.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		requireOwnerPredicate(t, db, 2, owner)
	})

	t.Run("Delete other owner", func(t *testing.T) {
		db := &fakeDB{execN: 0}
		repo := NewPostgresResourceRepository(db)
		if err := repo.Delete(context.Background(), id, owner); !errors.Is(err, resource.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		requireOwnerPredicate(t, db, 2, owner)
	})
}

func TestQuizRepositoryScopedToOwner(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	t.Run("ListByUser", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewPostgresQuizRepository(db)
		if _, err := repo.ListByUser(context.Background(), owner); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		requireOwnerPredicate(t, db, 1, owner)
	})

	t.Run("GetByID other owner", func(t *testing.T) {
		db := &fakeDB{scanErr: pgx.ErrNoRows}
		repo := NewPostgresQuizRepository(db)
		if _, err := repo.GetByID(context.Background(), id, owner); !errors.Is(err, quiz.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		requireOwnerPredicate(t, db, 2, owner)
	})

	t.Run("CountByUser", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewPostgresQuizRepository(db)
		if _, err := repo.CountByUser(context.Background(), owner); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		requireOwnerPredicate(t, db, 1, owner)
	})
}
