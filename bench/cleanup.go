package bench

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Cleanup deletes a written graph in foreign key order: join rows, the
// instructor, keywords, books. Every group runs in its own failure boundary
// and failures are only logged. It returns the number of groups that failed.
func Cleanup(ctx context.Context, logger *slog.Logger, r Remover, ids GraphIDs) int {
	steps := []struct {
		table string
		skip  bool
		run   func() error
	}{
		{"instructor_book", ids.InstructorID == 0, func() error { return r.DeleteBookLinks(ctx, ids.InstructorID) }},
		{"instructor_keyword", ids.InstructorID == 0, func() error { return r.DeleteKeywordLinks(ctx, ids.InstructorID) }},
		{"instructor", ids.InstructorID == 0, func() error { return r.DeleteInstructor(ctx, ids.InstructorID) }},
		{"keyword", len(ids.KeywordIDs) == 0, func() error { return r.DeleteKeywords(ctx, ids.KeywordIDs) }},
		{"book", len(ids.BookIDs) == 0, func() error { return r.DeleteBooks(ctx, ids.BookIDs) }},
	}

	failed := 0
	for _, s := range steps {
		if s.skip {
			continue
		}
		if err := guard(s.run); err != nil {
			failed++
			logger.WarnContext(ctx, "cleanup step failed",
				slog.String("table", s.table),
				slog.Int64("instructor_id", ids.InstructorID),
				slog.Any("error", err),
			)
		}
	}
	return failed
}

func guard(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return fn()
}

// Janitor owns every pending cleanup of a run. Inline mode cleans before
// Track returns; async mode cleans on tracked goroutines, where a cleanup may
// overlap the next timed write. Wait returns once all tracked cleanups
// finished.
type Janitor struct {
	logger  *slog.Logger
	metrics *Metrics
	async   bool

	wg      sync.WaitGroup
	mu      sync.Mutex
	cleaned int
}

func NewJanitor(logger *slog.Logger, metrics *Metrics, async bool) *Janitor {
	return &Janitor{logger: logger, metrics: metrics, async: async}
}

// Track schedules cleanup of ids through p. Cancellation of ctx does not
// stop the cleanup.
func (j *Janitor) Track(ctx context.Context, p Path, ids GraphIDs) {
	if ids.Empty() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	logger := j.logger.With(slog.String("path", string(p.Kind())))

	run := func() {
		failed := Cleanup(ctx, logger, p, ids)
		j.metrics.CleanupFailed(p.Kind(), failed)
		j.mu.Lock()
		j.cleaned++
		j.mu.Unlock()
	}

	if !j.async {
		run()
		return
	}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		run()
	}()
}

func (j *Janitor) Wait() {
	j.wg.Wait()
}

// Cleaned reports how many graphs went through cleanup.
func (j *Janitor) Cleaned() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cleaned
}
