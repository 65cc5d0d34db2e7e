// Package mysql opens a propstore.Store backed by MySQL/MariaDB, grounded
// on the teacher's database/mysql backend's DSN construction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	driver "github.com/go-sql-driver/mysql"

	"github.com/wzunique/subversion/propstore"
)

// Config describes how to reach the MySQL server holding the properties
// table.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DbName   string
	Socket   string
}

func buildDSN(c Config) string {
	cfg := driver.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.DbName
	if c.Socket == "" {
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	} else {
		cfg.Net = "unix"
		cfg.Addr = c.Socket
	}
	return cfg.FormatDSN()
}

// Open returns a Store backed by config, creating the properties table if
// it does not already exist.
func Open(ctx context.Context, config Config) (propstore.Store, error) {
	db, err := sql.Open("mysql", buildDSN(config))
	if err != nil {
		return nil, err
	}
	return propstore.Open(ctx, db, propstore.DialectMySQL)
}
