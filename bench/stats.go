package bench

import (
	"math"
	"sort"
	"time"
)

// Summarize groups results by scenario and path, keeping first-seen order.
func Summarize(results []Result) []Stats {
	type key struct {
		scenario string
		path     Kind
	}
	var order []key
	groups := map[key][]time.Duration{}
	for _, r := range results {
		k := key{r.Scenario, r.Path}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r.Duration)
	}

	stats := make([]Stats, 0, len(order))
	for _, k := range order {
		stats = append(stats, computeStats(k.scenario, k.path, groups[k]))
	}
	return stats
}

func computeStats(scenario string, path Kind, durations []time.Duration) Stats {
	s := Stats{Scenario: scenario, Path: path, Runs: len(durations)}
	if len(durations) == 0 {
		return s
	}

	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}

	s.Avg = sum / time.Duration(len(sorted))
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P50 = pct(sorted, 50)
	return s
}

func pct(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
