// Package testutils carries shared helpers for the integration tests:
// environment-driven database connectors and a text diff printer for
// golden comparisons.
package testutils

import (
	"context"
	"os"

	pgxv4 "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

func connString() string {
	var db_username string = getEnv("DB_USERNAME", "devel")
	var db_password string = getEnv("DB_PASSWORD", "devel")
	var db_host string = getEnv("DB_HOST", "localhost")
	var db_port string = getEnv("DB_PORT", "5432")
	var db_basename string = getEnv("DB_DATABASE", "devel_stats")

	return "postgres://" + db_username + ":" + db_password + "@" + db_host + ":" + db_port + "/" + db_basename
}

// NewPgxPool connects a pgx/v5 pool to the database named by the DB_*
// environment variables, falling back to the local devel defaults.
func NewPgxPool(ctx context.Context) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, connString())
}

// NewPgConn opens a single pgx/v4 connection with the same environment
// conventions as NewPgxPool.
func NewPgConn(ctx context.Context) (*pgxv4.Conn, error) {
	return pgxv4.Connect(ctx, connString())
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
