// Package mssql opens a propstore.Store backed by SQL Server, grounded on
// the teacher's database/mssql backend's DSN construction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/denisenkom/go-mssqldb"

	"github.com/wzunique/subversion/propstore"
)

// Config describes how to reach the SQL Server instance holding the
// properties table.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DbName   string
}

func buildDSN(c Config) string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
	}
	q := u.Query()
	q.Set("database", c.DbName)
	u.RawQuery = q.Encode()
	return u.String()
}

// Open returns a Store backed by config, creating the properties table if
// it does not already exist.
func Open(ctx context.Context, config Config) (propstore.Store, error) {
	db, err := sql.Open("sqlserver", buildDSN(config))
	if err != nil {
		return nil, err
	}
	return propstore.Open(ctx, db, propstore.DialectMSSQL)
}
