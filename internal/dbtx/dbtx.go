// Package dbtx defines the minimal transaction-starting interface every
// service's repository layer depends on, rather than the concrete
// *pgxpool.Pool, so tests can swap in pgxmock.
package dbtx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is satisfied by *pgxpool.Pool in production and by
// pgxmock.PgxPoolIface in tests.
type Database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// compile-time assertion that *pgxpool.Pool satisfies Database.
var _ Database = (*pgxpool.Pool)(nil)
