// Package postgres opens a propstore.Store backed by PostgreSQL, grounded
// on the teacher's database/postgres backend's DSN construction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/wzunique/subversion/propstore"
)

// Config describes how to reach the PostgreSQL server holding the
// properties table.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DbName   string
	SslMode  string
}

func buildDSN(c Config) string {
	sslMode := c.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DbName, sslMode)
}

// Open returns a Store backed by config, creating the properties table if
// it does not already exist.
func Open(ctx context.Context, config Config) (propstore.Store, error) {
	db, err := sql.Open("postgres", buildDSN(config))
	if err != nil {
		return nil, err
	}
	return propstore.Open(ctx, db, propstore.DialectPostgres)
}
