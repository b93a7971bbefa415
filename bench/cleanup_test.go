package bench

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullGraph = GraphIDs{InstructorID: 9, KeywordIDs: []int64{1, 2}, BookIDs: []int64{3, 4}}

func TestCleanupOrder(t *testing.T) {
	p := newFakePath(KindORM, 0)
	failed := Cleanup(context.Background(), discardLogger(), p, fullGraph)

	assert.Zero(t, failed)
	assert.Equal(t, []string{
		"delete:instructor_book",
		"delete:instructor_keyword",
		"delete:instructor",
		"delete:keyword",
		"delete:book",
	}, p.Calls())
}

func TestCleanupIsolatesFailures(t *testing.T) {
	p := newFakePath(KindREST, 0)
	p.failOn["instructor_keyword"] = errFake
	p.panicOn = "keyword"

	failed := Cleanup(context.Background(), discardLogger(), p, fullGraph)

	assert.Equal(t, 2, failed)
	assert.Len(t, p.Calls(), 5, "every group must still be attempted")
	assert.Equal(t, 1, p.deleted["instructor"])
	assert.Equal(t, 1, p.deleted["book"])
}

func TestCleanupTwice(t *testing.T) {
	p := newFakePath(KindORM, 0)
	ctx := context.Background()
	assert.NotPanics(t, func() {
		Cleanup(ctx, discardLogger(), p, fullGraph)
		Cleanup(ctx, discardLogger(), p, fullGraph)
	})
	assert.Len(t, p.Calls(), 10)
}

func TestCleanupSkipsEmptyGroups(t *testing.T) {
	p := newFakePath(KindREST, 0)
	Cleanup(context.Background(), discardLogger(), p, GraphIDs{KeywordIDs: []int64{5}})
	assert.Equal(t, []string{"delete:keyword"}, p.Calls())
}

func TestJanitorInline(t *testing.T) {
	p := newFakePath(KindORM, 0)
	j := NewJanitor(discardLogger(), nil, false)

	j.Track(context.Background(), p, fullGraph)
	assert.Equal(t, 1, j.Cleaned())
	assert.Len(t, p.Calls(), 5)

	j.Track(context.Background(), p, GraphIDs{})
	assert.Equal(t, 1, j.Cleaned(), "empty graphs are not tracked")
}

func TestJanitorAsyncWaits(t *testing.T) {
	m := NewMetrics()
	j := NewJanitor(discardLogger(), m, true)

	paths := []*fakePath{newFakePath(KindREST, 0), newFakePath(KindORM, 0), newFakePath(KindPgx, 0)}
	paths[1].failOn["book"] = errFake

	for _, p := range paths {
		j.Track(context.Background(), p, fullGraph)
	}
	j.Wait()

	assert.Equal(t, 3, j.Cleaned())
	for _, p := range paths {
		assert.Len(t, p.Calls(), 5)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleanupFailures.WithLabelValues(string(KindORM))))
}

func TestJanitorIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen []error
	p := &ctxRecorder{fakePath: newFakePath(KindORM, 0), seen: &seen}
	NewJanitor(discardLogger(), nil, false).Track(ctx, p, fullGraph)

	require.Len(t, seen, 5)
	for _, err := range seen {
		assert.NoError(t, err)
	}
}

type ctxRecorder struct {
	*fakePath
	seen *[]error
}

func (c *ctxRecorder) DeleteBookLinks(ctx context.Context, id int64) error {
	*c.seen = append(*c.seen, ctx.Err())
	return c.fakePath.DeleteBookLinks(ctx, id)
}

func (c *ctxRecorder) DeleteKeywordLinks(ctx context.Context, id int64) error {
	*c.seen = append(*c.seen, ctx.Err())
	return c.fakePath.DeleteKeywordLinks(ctx, id)
}

func (c *ctxRecorder) DeleteInstructor(ctx context.Context, id int64) error {
	*c.seen = append(*c.seen, ctx.Err())
	return c.fakePath.DeleteInstructor(ctx, id)
}

func (c *ctxRecorder) DeleteKeywords(ctx context.Context, ids []int64) error {
	*c.seen = append(*c.seen, ctx.Err())
	return c.fakePath.DeleteKeywords(ctx, ids)
}

func (c *ctxRecorder) DeleteBooks(ctx context.Context, ids []int64) error {
	*c.seen = append(*c.seen, ctx.Err())
	return c.fakePath.DeleteBooks(ctx, ids)
}
