package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"teachassist/internal/config"
	"teachassist/internal/database"
)

var errClosed = errors.New("postgres: connection closed")

// conn wraps a pgxpool.Pool together with a database/sql view of the same
// pool. The sql.DB view exists for the migration runner only; application
// queries go through pgx.
type conn struct {
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	pcfg, err := pgxpool.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	applyPoolTuning(pcfg, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &conn{pool: pool, sqlDB: stdlib.OpenDBFromPool(pool)}, nil
}

func buildDSN(cfg config.DatabaseConfig) string {
	parts := []string{
		"host=" + strings.TrimSpace(cfg.DBHost),
		"port=" + strings.TrimSpace(cfg.DBPort),
		"user=" + strings.TrimSpace(cfg.DBUser),
		"dbname=" + strings.TrimSpace(cfg.DBName),
		"sslmode=" + strings.TrimSpace(cfg.DBSSLMode),
	}
	if cfg.DBPassword != "" {
		parts = append(parts, "password="+cfg.DBPassword)
	}
	return strings.Join(parts, " ")
}

func applyPoolTuning(pcfg *pgxpool.Config, cfg config.DatabaseConfig) {
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = cfg.PoolMaxConns
	}
	if cfg.PoolMinConns > 0 {
		pcfg.MinConns = cfg.PoolMinConns
	}
	if cfg.PoolMaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.PoolMaxConnLifetime
	}
	if cfg.PoolMaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = cfg.PoolMaxConnIdleTime
	}
	if cfg.PoolHealthCheckPeriod > 0 {
		pcfg.HealthCheckPeriod = cfg.PoolHealthCheckPeriod
	}
}

func (c *conn) Ping(ctx context.Context) error {
	if c == nil || c.pool == nil {
		return errClosed
	}
	return c.pool.Ping(ctx)
}

func (c *conn) Close() error {
	if c == nil {
		return nil
	}
	if c.sqlDB != nil {
		_ = c.sqlDB.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

func (c *conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if c == nil || c.pool == nil {
		return 0, errClosed
	}
	tag, err := c.pool.Exec(ctx, query, args...)
	return tag.RowsAffected(), err
}

func (c *conn) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if c == nil || c.pool == nil {
		return nil, errClosed
	}
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows}, nil
}

func (c *conn) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if c == nil || c.pool == nil {
		return errRow{errClosed}
	}
	return c.pool.QueryRow(ctx, query, args...)
}

func (c *conn) Begin(ctx context.Context) (database.Tx, error) {
	if c == nil || c.pool == nil {
		return nil, errClosed
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgxTx{tx}, nil
}

func (c *conn) SQLDB() *sql.DB {
	if c == nil {
		return nil
	}
	return c.sqlDB
}

type pgxTx struct {
	tx pgx.Tx
}

func (t pgxTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t pgxTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows}, nil
}

func (t pgxTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.tx.QueryRow(ctx, query, args...)
}

func (t pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Close()                 { r.rows.Close() }
func (r pgxRows) Next() bool             { return r.rows.Next() }
func (r pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgxRows) Err() error             { return r.rows.Err() }

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
