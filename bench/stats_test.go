package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeGroupsInOrder(t *testing.T) {
	results := []Result{
		{Scenario: "books", Path: KindORM, Duration: 3 * time.Millisecond},
		{Scenario: "books", Path: KindREST, Duration: 10 * time.Millisecond},
		{Scenario: "books", Path: KindORM, Duration: 1 * time.Millisecond},
		{Scenario: "books", Path: KindORM, Duration: 2 * time.Millisecond},
	}

	stats := Summarize(results)
	require.Len(t, stats, 2)

	orm := stats[0]
	assert.Equal(t, KindORM, orm.Path)
	assert.Equal(t, 3, orm.Runs)
	assert.Equal(t, 2*time.Millisecond, orm.Avg)
	assert.Equal(t, 1*time.Millisecond, orm.Min)
	assert.Equal(t, 3*time.Millisecond, orm.Max)
	assert.Equal(t, 2*time.Millisecond, orm.P50)

	assert.Equal(t, KindREST, stats[1].Path)
	assert.Equal(t, 1, stats[1].Runs)
}

func TestSummarizeKeepsInput(t *testing.T) {
	results := []Result{
		{Scenario: "x", Path: KindORM, Duration: 5},
		{Scenario: "x", Path: KindORM, Duration: 1},
	}
	Summarize(results)
	assert.Equal(t, time.Duration(5), results[0].Duration)
}
