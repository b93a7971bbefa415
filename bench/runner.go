package bench

import (
	"context"
	"fmt"
	"log/slog"
)

// Runner sequences every scenario over every path, one call at a time.
type Runner struct {
	Paths   []Path
	Params  Params
	Logger  *slog.Logger
	Metrics *Metrics
	Janitor *Janitor

	// Seed produces the uniqueness seed of each write. Defaults to NewSeed.
	Seed func() string
}

// Label names a result. The repeat index is appended only when a phase runs
// more than once.
func Label(scenario string, path Kind, repeat, repeats int) string {
	label := scenario + "/" + string(path)
	if repeats > 1 {
		label += fmt.Sprintf(" #%d", repeat)
	}
	return label
}

// Run executes the read phase then the write phase and returns the results
// in execution order. Any scenario failure aborts the run; graphs written
// before the failure are still cleaned up before Run returns.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if len(r.Paths) == 0 {
		return nil, fmt.Errorf("no client paths configured")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	janitor := r.Janitor
	if janitor == nil {
		janitor = NewJanitor(logger, r.Metrics, false)
	}
	defer janitor.Wait()

	seed := r.Seed
	if seed == nil {
		seed = NewSeed
	}
	readRepeats := max(r.Params.ReadRepeats, 0)
	writeRepeats := max(r.Params.WriteRepeats, 0)

	results := make([]Result, 0, readRepeats*len(ReadScenarios)*len(r.Paths)+writeRepeats*len(r.Paths))

	for rep := 1; rep <= readRepeats; rep++ {
		logger.InfoContext(ctx, "read phase",
			slog.Int("repeat", rep),
			slog.Int("of", readRepeats),
			slog.Int("limit", r.Params.RowLimit),
		)
		for _, sc := range ReadScenarios {
			for _, p := range r.Paths {
				label := Label(sc.Name, p.Kind(), rep, readRepeats)
				t, err := Measure(label, func() (int64, error) {
					n, err := sc.Run(ctx, p, r.Params.RowLimit)
					return int64(n), err
				})
				if err != nil {
					return nil, fmt.Errorf("%s: %w", label, err)
				}
				res := Result{
					Label:    label,
					Scenario: sc.Name,
					Path:     p.Kind(),
					Repeat:   rep,
					Duration: t.Duration,
					Value:    t.Value,
				}
				r.Metrics.Observe(res)
				results = append(results, res)
			}
		}
	}

	for rep := 1; rep <= writeRepeats; rep++ {
		logger.InfoContext(ctx, "write phase",
			slog.Int("repeat", rep),
			slog.Int("of", writeRepeats),
		)
		for _, p := range r.Paths {
			label := Label(WriteScenario, p.Kind(), rep, writeRepeats)
			var ids GraphIDs
			t, err := Measure(label, func() (int64, error) {
				var err error
				ids, err = p.CreateGraph(ctx, seed())
				return ids.InstructorID, err
			})
			// Partial graphs from non-transactional paths are reclaimed too.
			janitor.Track(ctx, p, ids)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			res := Result{
				Label:    label,
				Scenario: WriteScenario,
				Path:     p.Kind(),
				Repeat:   rep,
				Duration: t.Duration,
				Value:    t.Value,
			}
			r.Metrics.Observe(res)
			results = append(results, res)
		}
	}

	return results, nil
}
