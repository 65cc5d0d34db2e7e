// Package sqlite opens a propstore.Store backed by a local sqlite file,
// grounded on the teacher's database/sqlite3 backend.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/wzunique/subversion/propstore"
)

// Open returns a Store backed by the sqlite database at path, creating the
// properties table if the file is new.
func Open(ctx context.Context, path string) (propstore.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return propstore.Open(ctx, db, propstore.DialectSQLite)
}
