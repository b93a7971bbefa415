package bench

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePath records every call made against it.
type fakePath struct {
	kind Kind
	rows int

	mu    sync.Mutex
	calls []string

	nextID   int64
	writeErr error
	partial  bool
	failOn   map[string]error
	panicOn  string
	readErr  error
	deleted  map[string]int
	closeErr error
}

func newFakePath(kind Kind, rows int) *fakePath {
	return &fakePath{kind: kind, rows: rows, nextID: 100, failOn: map[string]error{}, deleted: map[string]int{}}
}

func (f *fakePath) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakePath) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePath) Kind() Kind { return f.kind }

func (f *fakePath) read(name string, limit int) (int, error) {
	f.record(name)
	if f.readErr != nil {
		return 0, f.readErr
	}
	return min(f.rows, limit), nil
}

func (f *fakePath) ListInstructors(_ context.Context, limit int) (int, error) {
	return f.read("instructors", limit)
}

func (f *fakePath) ListBooks(_ context.Context, limit int) (int, error) {
	return f.read("books", limit)
}

func (f *fakePath) ListInstructorGraphs(_ context.Context, limit int) (int, error) {
	return f.read("instructor-graph", limit)
}

func (f *fakePath) CreateGraph(_ context.Context, seed string) (GraphIDs, error) {
	f.record("create:" + seed)
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.mu.Unlock()
	if f.writeErr != nil {
		if f.partial {
			return GraphIDs{KeywordIDs: []int64{1, 2}}, f.writeErr
		}
		return GraphIDs{}, f.writeErr
	}
	return GraphIDs{InstructorID: id, KeywordIDs: []int64{1, 2}, BookIDs: []int64{3, 4}}, nil
}

func (f *fakePath) del(table string) error {
	f.record("delete:" + table)
	if table == f.panicOn {
		panic("boom")
	}
	if err := f.failOn[table]; err != nil {
		return err
	}
	f.mu.Lock()
	f.deleted[table]++
	f.mu.Unlock()
	return nil
}

func (f *fakePath) DeleteBookLinks(context.Context, int64) error    { return f.del("instructor_book") }
func (f *fakePath) DeleteKeywordLinks(context.Context, int64) error { return f.del("instructor_keyword") }
func (f *fakePath) DeleteInstructor(context.Context, int64) error   { return f.del("instructor") }
func (f *fakePath) DeleteKeywords(context.Context, []int64) error   { return f.del("keyword") }
func (f *fakePath) DeleteBooks(context.Context, []int64) error      { return f.del("book") }

func (f *fakePath) Close() error {
	f.record("close")
	return f.closeErr
}

var errFake = errors.New("fake failure")
