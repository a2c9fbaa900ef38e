package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/lib/pq"

	"github.com/yuzvak/storefront-service/internal/config"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

const uniqueViolation = "23505"

type Connection struct {
	db *sql.DB
}

// NewConnection opens the pool with the configured driver: "postgres" is
// lib/pq, "pgx" is the pgx stdlib adapter.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig) (*Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "postgres"
	}
	if driver != "postgres" && driver != "pgx" {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	return &Connection{db: db}, nil
}

func NewConnectionFromDB(db *sql.DB) *Connection {
	return &Connection{db: db}
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Connection) Close() error {
	return c.db.Close()
}

func (c *Connection) GetDB() *sql.DB {
	return c.db
}

// isUniqueViolation understands both drivers' error types.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

func wrapTxErr(err error) error {
	return fmt.Errorf("%w: %v", domainErrors.ErrTransactionFailed, err)
}
