package bench

import "time"

type Timed[T any] struct {
	Label    string
	Duration time.Duration
	Value    T
}

// Measure runs op and records its wall-clock duration. time.Now carries a
// monotonic reading, so the result is immune to wall clock steps. A failing
// op yields no result and its error is returned untouched.
func Measure[T any](label string, op func() (T, error)) (Timed[T], error) {
	start := time.Now()
	v, err := op()
	elapsed := time.Since(start)
	if err != nil {
		return Timed[T]{}, err
	}
	return Timed[T]{Label: label, Duration: elapsed, Value: v}, nil
}
