package main

import (
	"fmt"
	"math/cmplx"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theapemachine/qudit"
)

const barWidth = 32

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	resultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca"))
)

// Eighth blocks give bars sub-character resolution.
var blockChars = [9]rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

func bar(value, peak float64) string {
	if peak <= 0 {
		return ""
	}

	eighths := int(value / peak * barWidth * 8)
	full, rest := eighths/8, eighths%8

	out := strings.Repeat(string(blockChars[8]), full)
	if rest > 0 {
		out += string(blockChars[rest])
	}

	return out
}

// renderHistogram draws one bar per basis state with a non-zero probability.
func renderHistogram(title string, probabilities []float64) string {
	peak := 0.0
	for _, p := range probabilities {
		peak = max(peak, p)
	}

	width := len(fmt.Sprint(len(probabilities) - 1))
	rows := []string{titleStyle.Render(title)}

	for i, p := range probabilities {
		if p < 1e-9 {
			continue
		}

		rows = append(rows, fmt.Sprintf(
			"%s %s %s",
			labelStyle.Render(fmt.Sprintf("%*d", width, i)),
			barStyle.Render(fmt.Sprintf("%-*s", barWidth, bar(p, peak))),
			dimStyle.Render(fmt.Sprintf("%.4f", p)),
		))
	}

	return panelStyle.Render(strings.Join(rows, "\n"))
}

func renderCounts(title string, counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	total := 0

	for key, count := range counts {
		keys = append(keys, key)
		total += count
	}

	sort.Strings(keys)

	rows := []string{titleStyle.Render(title)}

	for _, key := range keys {
		share := float64(counts[key]) / float64(total)
		rows = append(rows, fmt.Sprintf(
			"%s %s %s",
			labelStyle.Render(key),
			barStyle.Render(fmt.Sprintf("%-*s", barWidth, bar(share, 1))),
			dimStyle.Render(fmt.Sprintf("%d", counts[key])),
		))
	}

	return panelStyle.Render(strings.Join(rows, "\n"))
}

func renderResult(label, value string) string {
	return labelStyle.Render(label+": ") + resultStyle.Render(value)
}

func histogramOf(amplitudes qudit.Vector) []float64 {
	out := make([]float64, len(amplitudes))

	for i, a := range amplitudes {
		magnitude := cmplx.Abs(a)
		out[i] = magnitude * magnitude
	}

	return out
}
