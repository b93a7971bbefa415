// Package store opens connections for each supported dialect and holds the
// SQL text shared by every raw-SQL client path.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dialect describes how SQL must be spelled for one store.
type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
	// Returning reports support for INSERT ... RETURNING.
	Returning bool
	quote     byte
}

var (
	Postgres = Dialect{Name: "postgres", Placeholder: sq.Dollar, Returning: true, quote: '"'}
	MySQL    = Dialect{Name: "mysql", Placeholder: sq.Question, Returning: false, quote: '`'}
	SQLite   = Dialect{Name: "sqlite", Placeholder: sq.Question, Returning: true, quote: '"'}
)

func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unknown dialect %q", name)
}

// Quote quotes an identifier that collides with a keyword.
func (d Dialect) Quote(ident string) string {
	q := string(d.quote)
	return q + ident + q
}

// Rebind rewrites ? placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d.Placeholder == nil {
		return query
	}
	out, err := d.Placeholder.ReplacePlaceholders(query)
	if err != nil {
		return query
	}
	return out
}

// DB is one long-lived client handle. Pool is set for postgres only.
type DB struct {
	Dialect Dialect
	SQL     *sql.DB
	Pool    *pgxpool.Pool
}

// Open connects to dsn and verifies the connection. For postgres the
// database/sql handle is bridged onto the pgx pool.
func Open(ctx context.Context, d Dialect, dsn string) (*DB, error) {
	switch d.Name {
	case Postgres.Name:
		pool, err := ConnectPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &DB{Dialect: d, SQL: OpenDBFromPool(pool), Pool: pool}, nil
	case MySQL.Name:
		db, err := ConnectMySQL(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &DB{Dialect: d, SQL: db}, nil
	case SQLite.Name:
		db, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &DB{Dialect: d, SQL: db}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", d.Name)
}

func (db *DB) Close() error {
	err := db.SQL.Close()
	if db.Pool != nil {
		db.Pool.Close()
	}
	return err
}
