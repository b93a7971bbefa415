package bench

import "context"

// Reader runs the read scenarios. Each method returns the number of
// top-level rows materialized.
type Reader interface {
	ListInstructors(ctx context.Context, limit int) (int, error)
	ListBooks(ctx context.Context, limit int) (int, error)
	// ListInstructorGraphs expands profile, books, keywords and courses.
	ListInstructorGraphs(ctx context.Context, limit int) (int, error)
}

// Writer runs the write scenario. On a non-transactional path a failed
// write still returns the ids it managed to insert.
type Writer interface {
	CreateGraph(ctx context.Context, seed string) (GraphIDs, error)
}

// Remover deletes rows by the identifiers a write produced. Deleting rows
// that no longer exist is not an error.
type Remover interface {
	DeleteBookLinks(ctx context.Context, instructorID int64) error
	DeleteKeywordLinks(ctx context.Context, instructorID int64) error
	DeleteInstructor(ctx context.Context, id int64) error
	DeleteKeywords(ctx context.Context, ids []int64) error
	DeleteBooks(ctx context.Context, ids []int64) error
}

// Path is one client path under test.
type Path interface {
	Kind() Kind
	Reader
	Writer
	Remover
	Close() error
}

type ReadScenario struct {
	Name string
	Run  func(ctx context.Context, r Reader, limit int) (int, error)
}

const WriteScenario = "create-graph"

var ReadScenarios = []ReadScenario{
	{Name: "instructors", Run: func(ctx context.Context, r Reader, limit int) (int, error) {
		return r.ListInstructors(ctx, limit)
	}},
	{Name: "books", Run: func(ctx context.Context, r Reader, limit int) (int, error) {
		return r.ListBooks(ctx, limit)
	}},
	{Name: "instructor-graph", Run: func(ctx context.Context, r Reader, limit int) (int, error) {
		return r.ListInstructorGraphs(ctx, limit)
	}},
}
