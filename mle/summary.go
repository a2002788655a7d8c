package mle

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Summary renders the point estimates and their confidence bounds as an
// aligned text table: one header row, one data row per parameter. The name
// column is left-aligned, the numeric columns right-aligned, values shown
// to 5 significant digits. The bound columns are labelled with the tail
// percentages, e.g. "2.5%" and "97.5%" for p = 0.025.
func (r *Result) Summary(p float64) (string, error) {
	intervals, err := r.ConfInt(p)
	if err != nil {
		return "", err
	}

	header := []string{"name", "est", pctLabel(p), pctLabel(1 - p)}

	rows := make([][]string, len(r.mode))
	for i := range r.mode {
		rows[i] = []string{
			r.names[i],
			sig5(r.mode[i]),
			sig5(intervals[i].Lower),
			sig5(intervals[i].Upper),
		}
	}

	// Column widths in runes; byte widths misalign the θ names.
	widths := make([]int, len(header))
	for j, h := range header {
		widths[j] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for j, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	writeRow(&b, header, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return b.String(), nil
}

// String renders the summary table at the default 2.5% tails.
func (r *Result) String() string {
	s, err := r.Summary(DefaultTailProb)
	if err != nil {
		return "mlefit: " + err.Error()
	}
	return s
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for j, cell := range cells {
		pad := strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell))
		if j == 0 {
			b.WriteString(cell)
			b.WriteString(pad)
		} else {
			b.WriteString("  ")
			b.WriteString(pad)
			b.WriteString(cell)
		}
	}
	b.WriteByte('\n')
}

// sig5 formats a value to 5 significant digits.
func sig5(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

// pctLabel formats a tail probability as a percentage with one decimal.
func pctLabel(p float64) string {
	return fmt.Sprintf("%.1f%%", 100*p)
}
