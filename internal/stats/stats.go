// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typewriter/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes units per minute, keys per minute, and accuracy.
func SessionMetrics(units, correct, incorrect int, durationMs int64) (upm, kpm, accuracy float64) {
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return 0, 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	upm = float64(units) / minutes
	kpm = float64(correct) / minutes
	return upm, kpm, accuracy
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// MissCurve lists the misses of each unit in exercise order.
func MissCurve(order []string, units []model.UnitStats) []float64 {
	byUnit := make(map[string]int, len(units))
	for _, u := range units {
		byUnit[u.Unit] = u.Incorrect
	}
	out := make([]float64, len(order))
	for i, u := range order {
		out[i] = float64(byUnit[u])
	}
	return out
}

// RenderSummary prints the outcome of a practice run.
func RenderSummary(w io.Writer, sum model.SessionSummary, misses []float64) error {
	if sum.Units == 0 {
		_, err := fmt.Fprintln(w, "Free play, nothing to report.")
		return err
	}
	upm, kpm, acc := SessionMetrics(sum.Done, sum.Correct, sum.Incorrect, sum.DurationMs)
	title := sum.Title
	if title == "" {
		title = "custom text"
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Scheme: %s", sum.Scheme),
		fmt.Sprintf("Drill: %s", title),
		fmt.Sprintf("Units: %d/%d", sum.Done, sum.Units),
		fmt.Sprintf("Units/min: %.2f", upm),
		fmt.Sprintf("Keys/min: %.2f", kpm),
		fmt.Sprintf("Accuracy: %.2f%%", acc*100),
	}
	if len(misses) > 0 {
		lines = append(lines, fmt.Sprintf("Misses: [%s]", Sparkline(misses)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderUnitTable prints per-unit outcomes, least accurate first, limited
// to the top most practised units when top is positive.
func RenderUnitTable(w io.Writer, units []model.UnitStats, top int) error {
	if len(units) == 0 {
		_, err := fmt.Fprintln(w, "No unit stats found.")
		return err
	}
	if top > 0 {
		units = MostPractised(units, top)
	}
	rows := make([]model.UnitStats, len(units))
	copy(rows, units)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := accuracy(rows[i]), accuracy(rows[j])
		if ai == aj {
			return rows[i].Unit < rows[j].Unit
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Unit"); err != nil {
		return err
	}
	headers := []string{"Unit", "Accuracy", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		label := r.Unit
		if label == " " {
			label = "<space>"
		}
		tableRows = append(tableRows, []string{
			label,
			fmt.Sprintf("%.2f%%", accuracy(r)*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range FormatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
