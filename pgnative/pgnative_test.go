package pgnative

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"accessbench/bench"
	"accessbench/store"
	"accessbench/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openPath connects to the database named by BENCH_TEST_PG_URL and applies
// the reference schema. Tests skip when it is unset.
func openPath(t *testing.T) *Path {
	t.Helper()
	dsn := os.Getenv("BENCH_TEST_PG_URL")
	if dsn == "" {
		t.Skip("BENCH_TEST_PG_URL not set")
	}
	ctx := context.Background()

	db, err := store.Open(ctx, store.Postgres, dsn)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, storetest.PostgresSchema)
	require.NoError(t, err)

	p, err := New(db)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNewNeedsPool(t *testing.T) {
	_, err := New(&store.DB{Dialect: store.SQLite})
	require.Error(t, err)
}

func TestCreateGraphRoundTrip(t *testing.T) {
	p := openPath(t)
	ctx := context.Background()

	ids, err := p.CreateGraph(ctx, bench.NewSeed())
	require.NoError(t, err)
	require.NotZero(t, ids.InstructorID)
	assert.Len(t, ids.KeywordIDs, 2)
	assert.Len(t, ids.BookIDs, 2)

	n, err := p.ListInstructorGraphs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var links int
	require.NoError(t, p.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM instructor_keyword WHERE instructor_id = $1", ids.InstructorID).Scan(&links))
	assert.Equal(t, 2, links)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Zero(t, bench.Cleanup(ctx, logger, p, ids))
	assert.Zero(t, bench.Cleanup(ctx, logger, p, ids))

	var left int
	require.NoError(t, p.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM instructor WHERE id = $1", ids.InstructorID).Scan(&left))
	assert.Zero(t, left)
}

func TestReadsRespectLimit(t *testing.T) {
	p := openPath(t)
	ctx := context.Background()

	ids, err := p.CreateGraph(ctx, bench.NewSeed())
	require.NoError(t, err)
	t.Cleanup(func() {
		bench.Cleanup(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), p, ids)
	})

	for _, s := range bench.ReadScenarios {
		n, err := s.Run(ctx, p, 1)
		require.NoError(t, err, s.Name)
		assert.Equal(t, 1, n, s.Name)
	}
}
