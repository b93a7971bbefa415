// Package storetest provisions throwaway stores for path tests.
package storetest

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"accessbench/store"

	"github.com/stretchr/testify/require"
)

//go:embed sqlite.sql
var SQLiteSchema string

//go:embed postgres.sql
var PostgresSchema string

// Tables lists every table of the schema.
var Tables = []string{
	"instructor", "instructor_profile", "keyword", "book", "course",
	"instructor_book", "instructor_keyword",
}

// SQLitePath creates a schema-initialized sqlite file seeded with n
// instructors and returns its path.
func SQLitePath(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.db")

	db := OpenSQLite(t, path)
	_, err := db.SQL.Exec(SQLiteSchema)
	require.NoError(t, err)
	Seed(t, db.SQL, n)
	return path
}

// OpenSQLite opens path and closes it when the test ends.
func OpenSQLite(t *testing.T, path string) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), store.SQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// LinksPerInstructor is the number of books and of keywords Seed links to
// each instructor.
const LinksPerInstructor = 2

// Seed inserts n instructors, each with a profile, two books, two keywords
// and one course. created_at grows with the index.
func Seed(t *testing.T, db *sql.DB, n int) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	insert := func(query string, args ...any) int64 {
		res, err := db.Exec(query, args...)
		require.NoError(t, err, query)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		return id
	}

	for i := range n {
		at := base.Add(time.Duration(i) * time.Minute)
		id := insert(`INSERT INTO instructor (slug, external_id, name, bio, created_at) VALUES (?, ?, ?, ?, ?)`,
			fmt.Sprintf("seed-%d", i), fmt.Sprintf("seed-ext-%d", i), fmt.Sprintf("Instructor %d", i), "seeded", at)
		insert(`INSERT INTO instructor_profile (instructor_id, website, headline) VALUES (?, ?, ?)`,
			id, fmt.Sprintf("https://example.com/%d", i), "Instructor")
		insert(`INSERT INTO course (instructor_id, title, created_at) VALUES (?, ?, ?)`,
			id, fmt.Sprintf("Course %d", i), at)
		for j := range LinksPerInstructor {
			book := insert(`INSERT INTO book (title, isbn, created_at) VALUES (?, ?, ?)`,
				fmt.Sprintf("Book %d-%d", i, j), fmt.Sprintf("seed-isbn-%d-%d", i, j), at)
			kw := insert(`INSERT INTO keyword (name, created_at) VALUES (?, ?)`,
				fmt.Sprintf("seed-kw-%d-%d", i, j), at)
			insert(`INSERT INTO instructor_book (instructor_id, book_id) VALUES (?, ?)`, id, book)
			insert(`INSERT INTO instructor_keyword (instructor_id, keyword_id, "order") VALUES (?, ?, ?)`, id, kw, j)
		}
	}
}

// Counts returns the row count of every table.
func Counts(t *testing.T, db *sql.DB) map[string]int {
	t.Helper()
	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		counts[table] = n
	}
	return counts
}
