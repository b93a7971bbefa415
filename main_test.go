package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"accessbench/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, environ map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(environ)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunSQLite(t *testing.T) {
	file := storetest.SQLitePath(t, 12)
	check := storetest.OpenSQLite(t, file)
	before := storetest.Counts(t, check.SQL)

	out, err := execute(t, map[string]string{"BENCH_DIALECT": "sqlite"},
		"--dsn", file, "--limit", "10")
	require.NoError(t, err)

	for _, label := range []string{
		"instructors/orm", "books/orm-raw", "instructor-graph/sqlb",
		"create-graph/orm", "create-graph/orm-raw", "create-graph/sqlb",
	} {
		assert.Contains(t, out, label)
	}
	assert.NotContains(t, out, "#1")
	assert.NotContains(t, out, "runs")
	assert.Equal(t, before, storetest.Counts(t, check.SQL))
}

func TestRunSQLiteJSONWithRepeats(t *testing.T) {
	file := storetest.SQLitePath(t, 12)
	check := storetest.OpenSQLite(t, file)
	before := storetest.Counts(t, check.SQL)

	out, err := execute(t, map[string]string{
		"BENCH_DIALECT":       "sqlite",
		"BENCH_DATABASE_URL":  file,
		"BENCH_ASYNC_CLEANUP": "true",
	}, "--paths", "sqlb,orm", "--limit", "10", "--read-repeats", "2", "--write-repeats", "2", "--json")
	require.NoError(t, err)

	var rows []struct {
		Label  string `json:"label"`
		Path   string `json:"path"`
		Repeat int    `json:"repeat"`
		Value  int64  `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2*3*2+2*2)

	assert.Equal(t, "instructors/sqlb #1", rows[0].Label)
	assert.Equal(t, "instructors/orm #1", rows[1].Label)
	for _, r := range rows {
		if strings.HasPrefix(r.Label, "create-graph/") {
			assert.Positive(t, r.Value, r.Label)
			continue
		}
		assert.EqualValues(t, 10, r.Value, r.Label)
	}
	assert.Equal(t, before, storetest.Counts(t, check.SQL))
}

func TestRunFailsOnBadConfig(t *testing.T) {
	_, err := execute(t, map[string]string{"BENCH_DIALECT": "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BENCH_DATABASE_URL")

	_, err = execute(t, map[string]string{}, "--dialect", "oracle")
	require.Error(t, err)
}

func TestRunFailsOnMissingStore(t *testing.T) {
	_, err := execute(t, map[string]string{"BENCH_DIALECT": "sqlite"},
		"--dsn", t.TempDir()+"/missing/bench.db")
	require.Error(t, err)
}

func TestPathsReadTheSameRows(t *testing.T) {
	file := storetest.SQLitePath(t, storetest.SeedRows)

	out, err := execute(t, map[string]string{"BENCH_DIALECT": "sqlite"},
		"--dsn", file, "--limit", "100", "--write-repeats", "0", "--json")
	require.NoError(t, err)

	var rows []struct {
		Scenario string `json:"scenario"`
		Path     string `json:"path"`
		Value    int64  `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3*3)

	for _, r := range rows {
		assert.EqualValues(t, storetest.ExpectedRows(r.Scenario, 100), r.Value, "%s/%s", r.Scenario, r.Path)
	}
	assert.EqualValues(t, storetest.LinksPerInstructor*storetest.SeedRows, rows[3].Value, "books/%s", rows[3].Path)
}

