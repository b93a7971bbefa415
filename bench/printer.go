package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Millis rounds d to whole milliseconds for display.
func Millis(d time.Duration) int64 {
	return int64(d.Round(time.Millisecond) / time.Millisecond)
}

// Render writes one table row per result: label, duration in ms, value.
func Render(w io.Writer, results []Result) error {
	if len(results) == 0 {
		return errors.New("no results to report")
	}

	lw := len("Label")
	for _, r := range results {
		lw = max(lw, len(r.Label))
	}
	rule := func(left, mid, right string) string {
		return left + strings.Repeat("─", lw+2) +
			mid + strings.Repeat("─", 10) +
			mid + strings.Repeat("─", 10) + right
	}

	fmt.Fprintln(w, rule("┌", "┬", "┐"))
	fmt.Fprintf(w, "│ %-*s │ %8s │ %8s │\n", lw, "Label", "ms", "value")
	fmt.Fprintln(w, rule("├", "┼", "┤"))
	for _, r := range results {
		fmt.Fprintf(w, "│ %-*s │ %8d │ %8d │\n", lw, r.Label, Millis(r.Duration), r.Value)
	}
	_, err := fmt.Fprintln(w, rule("└", "┴", "┘"))
	return err
}

// RenderSummary writes the per scenario and path aggregates of repeated runs.
func RenderSummary(w io.Writer, stats []Stats) error {
	if len(stats) == 0 {
		return errors.New("no stats to report")
	}

	lw := len("Scenario")
	for _, s := range stats {
		lw = max(lw, len(s.Scenario)+1+len(s.Path))
	}

	fmt.Fprintf(w, "\n%-*s  %4s  %10s  %10s  %10s  %10s\n", lw, "Scenario", "runs", "avg", "min", "max", "p50")
	fmt.Fprintln(w, strings.Repeat("─", lw+56))
	for _, s := range stats {
		fmt.Fprintf(w, "%-*s  %4d  %10s  %10s  %10s  %10s\n",
			lw, s.Scenario+"/"+string(s.Path), s.Runs,
			FmtDur(s.Avg), FmtDur(s.Min), FmtDur(s.Max), FmtDur(s.P50))
	}
	return nil
}

type jsonResult struct {
	Label      string  `json:"label"`
	Scenario   string  `json:"scenario"`
	Path       Kind    `json:"path"`
	Repeat     int     `json:"repeat"`
	DurationMs float64 `json:"duration_ms"`
	Value      int64   `json:"value"`
}

// RenderJSON writes results as a JSON array.
func RenderJSON(w io.Writer, results []Result) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			Label:      r.Label,
			Scenario:   r.Scenario,
			Path:       r.Path,
			Repeat:     r.Repeat,
			DurationMs: float64(r.Duration) / float64(time.Millisecond),
			Value:      r.Value,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	if us < 1000 {
		return fmt.Sprintf("%.0fµs", us)
	}
	return fmt.Sprintf("%.2fms", us/1000)
}
