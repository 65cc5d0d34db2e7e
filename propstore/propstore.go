// Package propstore is the per-path translation-policy cache (component
// H): a small database/sql-backed table recording the last-known
// eol-style, keyword list, special flag and content digest for a
// repository path. It is deliberately not a repository backend — no
// commit, checkout, or branching lives here — just a local lookup the
// driver and CLI consult before re-translating a file.
package propstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PolicyRecord is one row of the properties table.
type PolicyRecord struct {
	Path        string
	EOLStyle    string
	EOLFixed    string
	Keywords    string
	Special     bool
	Revision    string
	URL         string
	Author      string
	CommittedAt int64
	Digest      string
}

// Store is the abstraction every backend (sqlite, mysql, postgres, mssql)
// implements identically against a shared SQL schema.
type Store interface {
	Get(ctx context.Context, path string) (PolicyRecord, bool, error)
	Put(ctx context.Context, rec PolicyRecord) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]PolicyRecord, error)
	Close() error
}

// Dialect selects the SQL variant a backend speaks: DDL types, bind
// placeholder syntax, and upsert form all differ slightly.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectMySQL
	DialectPostgres
	DialectMSSQL
)

// Open wraps an already-opened *sql.DB as a Store, creating the
// properties table if it does not exist. The caller owns opening db with
// the right driver (see the sqlite/mysql/postgres/mssql subpackages) and
// retains responsibility for its DSN and connection-pool settings.
func Open(ctx context.Context, db *sql.DB, dialect Dialect) (Store, error) {
	if _, err := db.ExecContext(ctx, schemaDDL(dialect)); err != nil {
		return nil, fmt.Errorf("propstore: create schema: %w", err)
	}
	return &sqlStore{db: db, dialect: dialect}, nil
}

func schemaDDL(d Dialect) string {
	switch d {
	case DialectMSSQL:
		return `IF NOT EXISTS (SELECT * FROM sysobjects WHERE name='properties' AND xtype='U')
CREATE TABLE properties (
	path NVARCHAR(900) PRIMARY KEY,
	eol_style NVARCHAR(32),
	eol_fixed NVARCHAR(8),
	keywords NVARCHAR(MAX),
	special BIT,
	revision NVARCHAR(64),
	url NVARCHAR(1024),
	author NVARCHAR(256),
	committed_at BIGINT,
	digest NVARCHAR(128)
)`
	default:
		return `CREATE TABLE IF NOT EXISTS properties (
	path TEXT PRIMARY KEY,
	eol_style TEXT,
	eol_fixed TEXT,
	keywords TEXT,
	special INTEGER,
	revision TEXT,
	url TEXT,
	author TEXT,
	committed_at INTEGER,
	digest TEXT
)`
	}
}

type sqlStore struct {
	db      *sql.DB
	dialect Dialect
}

func (d Dialect) placeholder(n int) string {
	switch d {
	case DialectPostgres:
		return fmt.Sprintf("$%d", n)
	case DialectMSSQL:
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}

func (s *sqlStore) Get(ctx context.Context, path string) (PolicyRecord, bool, error) {
	q := fmt.Sprintf(`SELECT path, eol_style, eol_fixed, keywords, special, revision, url, author, committed_at, digest
		FROM properties WHERE path = %s`, s.dialect.placeholder(1))

	var rec PolicyRecord
	var special int64
	row := s.db.QueryRowContext(ctx, q, path)
	err := row.Scan(&rec.Path, &rec.EOLStyle, &rec.EOLFixed, &rec.Keywords, &special,
		&rec.Revision, &rec.URL, &rec.Author, &rec.CommittedAt, &rec.Digest)
	if err == sql.ErrNoRows {
		return PolicyRecord{}, false, nil
	}
	if err != nil {
		return PolicyRecord{}, false, fmt.Errorf("propstore: get %s: %w", path, err)
	}
	rec.Special = special != 0
	return rec, true, nil
}

func (s *sqlStore) Put(ctx context.Context, rec PolicyRecord) error {
	special := int64(0)
	if rec.Special {
		special = 1
	}

	var q string
	switch s.dialect {
	case DialectSQLite, DialectPostgres:
		ph := s.dialect.placeholder
		q = fmt.Sprintf(`INSERT INTO properties
			(path, eol_style, eol_fixed, keywords, special, revision, url, author, committed_at, digest)
			VALUES (%s,%s,%s,%s,%s,%s,%s,%s,%s,%s)
			ON CONFLICT(path) DO UPDATE SET
			eol_style=excluded.eol_style, eol_fixed=excluded.eol_fixed, keywords=excluded.keywords,
			special=excluded.special, revision=excluded.revision, url=excluded.url,
			author=excluded.author, committed_at=excluded.committed_at, digest=excluded.digest`,
			ph(1), ph(2), ph(3), ph(4), ph(5), ph(6), ph(7), ph(8), ph(9), ph(10))

	case DialectMySQL:
		q = `INSERT INTO properties
			(path, eol_style, eol_fixed, keywords, special, revision, url, author, committed_at, digest)
			VALUES (?,?,?,?,?,?,?,?,?,?)
			ON DUPLICATE KEY UPDATE
			eol_style=VALUES(eol_style), eol_fixed=VALUES(eol_fixed), keywords=VALUES(keywords),
			special=VALUES(special), revision=VALUES(revision), url=VALUES(url),
			author=VALUES(author), committed_at=VALUES(committed_at), digest=VALUES(digest)`

	case DialectMSSQL:
		q = `MERGE properties AS t
			USING (SELECT @p1 AS path) AS s ON t.path = s.path
			WHEN MATCHED THEN UPDATE SET
				eol_style=@p2, eol_fixed=@p3, keywords=@p4, special=@p5,
				revision=@p6, url=@p7, author=@p8, committed_at=@p9, digest=@p10
			WHEN NOT MATCHED THEN INSERT
				(path, eol_style, eol_fixed, keywords, special, revision, url, author, committed_at, digest)
				VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9,@p10);`

	default:
		return fmt.Errorf("propstore: unknown dialect %d", s.dialect)
	}

	_, err := s.db.ExecContext(ctx, q,
		rec.Path, rec.EOLStyle, rec.EOLFixed, rec.Keywords, special,
		rec.Revision, rec.URL, rec.Author, rec.CommittedAt, rec.Digest)
	if err != nil {
		return fmt.Errorf("propstore: put %s: %w", rec.Path, err)
	}
	return nil
}

func (s *sqlStore) Delete(ctx context.Context, path string) error {
	q := fmt.Sprintf("DELETE FROM properties WHERE path = %s", s.dialect.placeholder(1))
	if _, err := s.db.ExecContext(ctx, q, path); err != nil {
		return fmt.Errorf("propstore: delete %s: %w", path, err)
	}
	return nil
}

func (s *sqlStore) List(ctx context.Context, prefix string) ([]PolicyRecord, error) {
	like := strings.ReplaceAll(prefix, "%", "\\%") + "%"
	q := fmt.Sprintf(`SELECT path, eol_style, eol_fixed, keywords, special, revision, url, author, committed_at, digest
		FROM properties WHERE path LIKE %s ORDER BY path`, s.dialect.placeholder(1))

	rows, err := s.db.QueryContext(ctx, q, like)
	if err != nil {
		return nil, fmt.Errorf("propstore: list %s: %w", prefix, err)
	}
	defer rows.Close()

	var recs []PolicyRecord
	for rows.Next() {
		var rec PolicyRecord
		var special int64
		if err := rows.Scan(&rec.Path, &rec.EOLStyle, &rec.EOLFixed, &rec.Keywords, &special,
			&rec.Revision, &rec.URL, &rec.Author, &rec.CommittedAt, &rec.Digest); err != nil {
			return nil, fmt.Errorf("propstore: scan row under %s: %w", prefix, err)
		}
		rec.Special = special != 0
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
