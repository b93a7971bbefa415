package storetest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"accessbench/bench"
	"accessbench/model"
	"accessbench/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Opener builds the path under test on top of db. The path owns db.
type Opener func(t *testing.T, db *store.DB) bench.Path

// SeedRows is the number of instructors seeded before each suite case.
const SeedRows = 15

// ExpectedRows is the row count every path must return for a read scenario
// over a store seeded with SeedRows instructors.
func ExpectedRows(scenario string, limit int) int {
	if scenario == "books" {
		return min(limit, LinksPerInstructor*SeedRows)
	}
	return min(limit, SeedRows)
}

type fixture struct {
	path  bench.Path
	check *store.DB
}

func newFixture(t *testing.T, open Opener) fixture {
	t.Helper()
	file := SQLitePath(t, SeedRows)

	db, err := store.Open(context.Background(), store.SQLite, file)
	require.NoError(t, err)
	p := open(t, db)
	t.Cleanup(func() { p.Close() })

	return fixture{path: p, check: OpenSQLite(t, file)}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RunPathSuite checks that a path reads the same rows as every other path
// and that its writes are fully reclaimed by cleanup.
func RunPathSuite(t *testing.T, open Opener) {
	ctx := context.Background()

	t.Run("reads honor limit", func(t *testing.T) {
		f := newFixture(t, open)
		for _, s := range bench.ReadScenarios {
			for _, limit := range []int{10, 100} {
				n, err := s.Run(ctx, f.path, limit)
				require.NoError(t, err, s.Name)
				assert.Equal(t, ExpectedRows(s.Name, limit), n, "%s limit %d", s.Name, limit)
			}
		}
	})

	t.Run("write round trip", func(t *testing.T) {
		f := newFixture(t, open)
		before := Counts(t, f.check.SQL)
		seed := bench.NewSeed()

		ids, err := f.path.CreateGraph(ctx, seed)
		require.NoError(t, err)
		require.NotZero(t, ids.InstructorID)
		require.Len(t, ids.KeywordIDs, model.GraphSize)
		require.Len(t, ids.BookIDs, model.GraphSize)

		var slug, name string
		require.NoError(t, f.check.SQL.QueryRow(
			"SELECT slug, name FROM instructor WHERE id = ?", ids.InstructorID).Scan(&slug, &name))
		assert.Equal(t, "bench-"+seed, slug)
		assert.Equal(t, "Benchmark Instructor", name)

		rows, err := f.check.SQL.Query(
			`SELECT keyword_id, "order" FROM instructor_keyword WHERE instructor_id = ? ORDER BY "order"`, ids.InstructorID)
		require.NoError(t, err)
		defer rows.Close()
		var links []model.InstructorKeyword
		for rows.Next() {
			l := model.InstructorKeyword{InstructorID: ids.InstructorID}
			require.NoError(t, rows.Scan(&l.KeywordID, &l.Order))
			links = append(links, l)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, model.KeywordLinks(ids.InstructorID, ids.KeywordIDs), links)

		after := Counts(t, f.check.SQL)
		assert.Equal(t, before["instructor"]+1, after["instructor"])
		assert.Equal(t, before["keyword"]+model.GraphSize, after["keyword"])
		assert.Equal(t, before["book"]+model.GraphSize, after["book"])
		assert.Equal(t, before["instructor_book"]+model.GraphSize, after["instructor_book"])

		assert.Zero(t, bench.Cleanup(ctx, quiet(), f.path, ids))
		assert.Equal(t, before, Counts(t, f.check.SQL))
	})

	t.Run("repeated writes never collide", func(t *testing.T) {
		f := newFixture(t, open)
		before := Counts(t, f.check.SQL)

		seen := map[int64]bool{}
		var all []bench.GraphIDs
		for range 3 {
			ids, err := f.path.CreateGraph(ctx, bench.NewSeed())
			require.NoError(t, err)
			assert.False(t, seen[ids.InstructorID])
			seen[ids.InstructorID] = true
			all = append(all, ids)
		}
		for _, ids := range all {
			assert.Zero(t, bench.Cleanup(ctx, quiet(), f.path, ids))
		}
		assert.Equal(t, before, Counts(t, f.check.SQL))
	})

	t.Run("double cleanup is harmless", func(t *testing.T) {
		f := newFixture(t, open)
		before := Counts(t, f.check.SQL)

		ids, err := f.path.CreateGraph(ctx, bench.NewSeed())
		require.NoError(t, err)
		assert.Zero(t, bench.Cleanup(ctx, quiet(), f.path, ids))
		assert.Zero(t, bench.Cleanup(ctx, quiet(), f.path, ids))
		assert.Equal(t, before, Counts(t, f.check.SQL))
	})

	t.Run("failed write leaves no partial graph", func(t *testing.T) {
		f := newFixture(t, open)
		seed := bench.NewSeed()

		first, err := f.path.CreateGraph(ctx, seed)
		require.NoError(t, err)
		mid := Counts(t, f.check.SQL)

		ids, err := f.path.CreateGraph(ctx, seed)
		require.Error(t, err)
		assert.True(t, ids.Empty())
		assert.Equal(t, mid, Counts(t, f.check.SQL))

		bench.Cleanup(ctx, quiet(), f.path, first)
	})
}
