// Package postgres opens the shared connection pool and classifies driver errors.
//
// Both lib/pq and pgx's database/sql adapter are registered; DB_DRIVER picks
// one. Stores never inspect driver errors themselves, they call the helpers
// here so either driver yields the same sentinel facts.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"electoral/internal/platform/config"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Open creates the process-wide pool and verifies connectivity.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// sqlState extracts the SQLSTATE and constraint from either driver's error type.
func sqlState(err error) (code, constraint string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

// IsUniqueViolation reports a 23505 from either driver.
func IsUniqueViolation(err error) bool {
	code, _, ok := sqlState(err)
	return ok && code == codeUniqueViolation
}

// IsForeignKeyViolation reports a 23503 from either driver.
func IsForeignKeyViolation(err error) bool {
	code, _, ok := sqlState(err)
	return ok && code == codeForeignKeyViolation
}

// IsCheckViolation reports a 23514 from either driver.
func IsCheckViolation(err error) bool {
	code, _, ok := sqlState(err)
	return ok && code == codeCheckViolation
}

// Constraint returns the violated constraint name, if the driver reported one.
func Constraint(err error) string {
	_, c, _ := sqlState(err)
	return c
}
