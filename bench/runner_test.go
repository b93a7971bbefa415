package bench

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterSeed() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("seed-%d", n)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "books/orm", Label("books", KindORM, 1, 1))
	assert.Equal(t, "books/orm #2", Label("books", KindORM, 2, 3))
	assert.Equal(t, "create-graph/rest", Label(WriteScenario, KindREST, 1, 1))
}

func TestRunSinglePass(t *testing.T) {
	orm := newFakePath(KindORM, 50)
	sqlb := newFakePath(KindQueryBuilder, 50)
	r := &Runner{
		Paths:  []Path{orm, sqlb},
		Params: Params{RowLimit: 10, ReadRepeats: 1, WriteRepeats: 1},
		Logger: discardLogger(),
		Seed:   counterSeed(),
	}

	results, err := r.Run(context.Background())
	require.NoError(t, err)

	var labels []string
	for _, res := range results {
		labels = append(labels, res.Label)
	}
	assert.Equal(t, []string{
		"instructors/orm", "instructors/sqlb",
		"books/orm", "books/sqlb",
		"instructor-graph/orm", "instructor-graph/sqlb",
		"create-graph/orm", "create-graph/sqlb",
	}, labels)

	for _, res := range results[:6] {
		assert.Equal(t, int64(10), res.Value, res.Label)
	}
	assert.Equal(t, int64(101), results[6].Value)
	assert.Equal(t, int64(101), results[7].Value)

	// Cleanup runs right after each write, before the next path writes.
	assert.Equal(t, []string{
		"instructors", "books", "instructor-graph",
		"create:seed-1",
		"delete:instructor_book", "delete:instructor_keyword", "delete:instructor",
		"delete:keyword", "delete:book",
	}, orm.Calls())
	assert.Equal(t, "create:seed-2", sqlb.Calls()[3])
}

func TestRunRepeatsSuffixLabels(t *testing.T) {
	p := newFakePath(KindPgx, 5)
	r := &Runner{
		Paths:  []Path{p},
		Params: Params{RowLimit: 100, ReadRepeats: 2, WriteRepeats: 3},
		Logger: discardLogger(),
	}

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2*len(ReadScenarios)+3)

	assert.Equal(t, "instructors/pgx #1", results[0].Label)
	assert.Equal(t, "instructors/pgx #2", results[3].Label)
	assert.Equal(t, "create-graph/pgx #3", results[8].Label)
	assert.Equal(t, 3, results[8].Repeat)
	assert.Equal(t, int64(5), results[0].Value)

	seeds := map[string]bool{}
	for _, c := range p.Calls() {
		if strings.HasPrefix(c, "create:") {
			seeds[c] = true
		}
	}
	assert.Len(t, seeds, 3, "every write gets its own seed")
}

func TestRunReadFailureAborts(t *testing.T) {
	good := newFakePath(KindORM, 10)
	bad := newFakePath(KindREST, 10)
	bad.readErr = errFake

	r := &Runner{Paths: []Path{good, bad}, Params: Params{RowLimit: 10, ReadRepeats: 1, WriteRepeats: 1}, Logger: discardLogger()}
	results, err := r.Run(context.Background())

	require.ErrorIs(t, err, errFake)
	assert.Contains(t, err.Error(), "instructors/rest")
	assert.Nil(t, results)
	assert.Len(t, good.Calls(), 1, "nothing runs after the failure")
}

func TestRunWriteFailureCleansEarlierGraphs(t *testing.T) {
	first := newFakePath(KindORM, 10)
	second := newFakePath(KindREST, 10)
	second.writeErr = errFake
	second.partial = true

	j := NewJanitor(discardLogger(), nil, true)
	r := &Runner{
		Paths:   []Path{first, second},
		Params:  Params{RowLimit: 10, WriteRepeats: 1},
		Logger:  discardLogger(),
		Janitor: j,
	}
	_, err := r.Run(context.Background())
	require.ErrorIs(t, err, errFake)

	// Run waits for async cleanups before returning.
	assert.Equal(t, 2, j.Cleaned())
	assert.Equal(t, 1, first.deleted["book"])
	assert.Equal(t, 1, second.deleted["keyword"], "partial graph is reclaimed")
	assert.Zero(t, second.deleted["instructor"])
}

func TestRunNoPaths(t *testing.T) {
	_, err := (&Runner{}).Run(context.Background())
	require.Error(t, err)
}

func TestRunRecordsMetrics(t *testing.T) {
	m := NewMetrics()
	r := &Runner{
		Paths:   []Path{newFakePath(KindORM, 3)},
		Params:  Params{RowLimit: 10, ReadRepeats: 1, WriteRepeats: 1},
		Logger:  discardLogger(),
		Metrics: m,
	}
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["accessbench_scenario_duration_seconds"])
	assert.True(t, names["accessbench_scenario_value"])
}
