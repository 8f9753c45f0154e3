package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// lockKey serializes concurrent server starts against one database while the
// schema is being brought up to date.
const lockKey = 611204873

// Runner applies versioned SQL files named V<version>__<name>.sql from Dir,
// in version order, each in its own transaction. Applied versions are
// recorded in schema_migrations with a checksum; a changed file for an
// already-applied version is an error.
type Runner struct {
	Dir string
}

type migrationFile struct {
	version  int64
	name     string
	filename string
	sql      string
	checksum string
}

func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("migration: nil db")
	}

	dir := strings.TrimSpace(r.Dir)
	if dir == "" {
		dir = "migrations"
	}

	files, err := readDir(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// The lock is a session lock, so acquire and release must happen on the
	// same connection; going through the pool could pair them on different
	// sessions and leak the lock.
	lockConn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer lockConn.Close()

	if _, err := lockConn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return err
	}
	defer func() {
		_, _ = lockConn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, f := range files {
		if sum, ok := applied[f.version]; ok {
			if sum != f.checksum {
				return fmt.Errorf("migration: checksum mismatch for version %d (%s)", f.version, f.filename)
			}
			continue
		}
		if err := apply(ctx, db, f); err != nil {
			return err
		}
	}

	return nil
}

// parseFilename splits "V<version>__<name>.sql"; ok is false for any file
// that does not follow the scheme, which the runner silently skips.
func parseFilename(filename string) (version int64, name string, ok bool) {
	base, found := strings.CutSuffix(filename, ".sql")
	if !found {
		return 0, "", false
	}
	rest, found := strings.CutPrefix(base, "V")
	if !found {
		return 0, "", false
	}
	num, name, found := strings.Cut(rest, "__")
	if !found || name == "" {
		return 0, "", false
	}
	version, err := strconv.ParseInt(num, 10, 64)
	if err != nil || version < 0 {
		return 0, "", false
	}
	return version, name, true
}

func readDir(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	files := make([]migrationFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, ok := parseFilename(e.Name())
		if !ok {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return nil, fmt.Errorf("migration: empty file %s", e.Name())
		}

		sum := sha256.Sum256([]byte(text))
		files = append(files, migrationFile{
			version:  version,
			name:     name,
			filename: e.Name(),
			sql:      text,
			checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	for i := 1; i < len(files); i++ {
		if files[i].version == files[i-1].version {
			return nil, fmt.Errorf("migration: duplicate version %d", files[i].version)
		}
	}

	return files, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int64]string{}
	for rows.Next() {
		var version int64
		var checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		applied[version] = checksum
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, f migrationFile) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, f.sql); err != nil {
		return fmt.Errorf("migration: apply %s: %w", f.filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum, applied_at) VALUES ($1, $2, $3, $4)`,
		f.version, f.name, f.checksum, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}
