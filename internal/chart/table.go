package chart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/primedial/internal/dial"
)

const highlightMarker = "*"

// Tooltip returns the hover text for a sampled point.
func Tooltip(p dial.Point) []string {
	return []string{
		"Position: " + p.Label,
		"Prime: " + strconv.Itoa(p.Value),
	}
}

// TableLines formats the sampled points as aligned Position/Prime rows.
func TableLines(s dial.Series) []string {
	rows := make([][]string, 0, s.Len())
	for i, p := range s.Points {
		mark := ""
		if i == s.Highlighted {
			mark = highlightMarker
		}
		rows = append(rows, []string{p.Label, strconv.Itoa(p.Value), mark})
	}
	return formatTable([]string{"Position", "Prime", ""}, rows, map[int]bool{0: true, 1: true})
}

// RenderTable writes TableLines to w.
func RenderTable(w io.Writer, s dial.Series) error {
	for _, line := range TableLines(s) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// SummaryLines describes how s was derived from its source sequence.
func SummaryLines(s dial.Series) []string {
	lines := []string{
		fmt.Sprintf("Primes in range: %d", s.SourceLen),
		fmt.Sprintf("Shown: %d (every %d)", s.Len(), s.Step),
	}
	if s.Len() > 0 {
		last := s.Points[s.Len()-1]
		lines = append(lines, fmt.Sprintf("Largest shown: %d", last.Value))
	}
	if s.Highlighted >= 0 && s.Highlighted < s.Len() {
		p := s.Points[s.Highlighted]
		lines = append(lines, "Highlighted: "+strings.Join(Tooltip(p), ", "))
	}
	return lines
}

// RenderSummary writes SummaryLines to w.
func RenderSummary(w io.Writer, s dial.Series) error {
	for _, line := range SummaryLines(s) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
