package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/primedial/internal/dial"
)

const (
	defaultDialRows = 12
	minDialRows     = 4
	maxDialRows     = 40
	dialChrome      = 4
	ringColor       = "\x1b[90m"
	emptyDialNote   = "No primes to display."
)

// DialOptions controls RenderDial.
type DialOptions struct {
	Title string
	// Rows is the chart height in terminal cells; zero sizes to the terminal.
	Rows  int
	Color bool
}

// RenderDial draws s as a polar-area chart. Wedges are equal slices starting
// at 12 o'clock and running clockwise; each reaches value/AxisMax of the
// radius. Rings mark multiples of TickStep.
func RenderDial(w io.Writer, s dial.Series, opts DialOptions) error {
	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, opts.Title); err != nil {
			return err
		}
	}
	if s.Len() == 0 || s.AxisMax <= 0 {
		_, err := fmt.Fprintln(w, emptyDialNote)
		return err
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = DialRowsFor(terminalSize())
	}
	for _, line := range DialLines(s, rows, shouldUseColor(w, opts.Color)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Axis max: %.1f  Ring every: %d\n", s.AxisMax, s.TickStep)
	return err
}

// DialRowsFor picks a chart height that fits a terminal of the given size.
// The chart is twice as wide as it is tall in cells.
func DialRowsFor(totalWidth, totalHeight int) int {
	if totalWidth <= 0 || totalHeight <= 0 {
		return defaultDialRows
	}
	rows := totalHeight - dialChrome
	if byWidth := totalWidth / 2; byWidth < rows {
		rows = byWidth
	}
	if rows < minDialRows {
		rows = minDialRows
	}
	if rows > maxDialRows {
		rows = maxDialRows
	}
	return rows
}

// DialLines returns the braille grid for s, rows lines of 2*rows cells.
func DialLines(s dial.Series, rows int, useColor bool) []string {
	if rows < minDialRows {
		rows = minDialRows
	}
	cols := rows * 2
	n := s.Len()
	if n == 0 || s.AxisMax <= 0 {
		return nil
	}

	// one layer per wedge, rings last so wedges win the cell colour
	layers := make([][][]uint8, n+1)
	for i := range layers {
		layers[i] = makeCells(rows, cols)
	}
	ringLayer := layers[n]

	dotsW, dotsH := cols*2, rows*4
	cx := float64(dotsW-1) / 2
	cy := float64(dotsH-1) / 2
	radius := math.Min(cx, cy)
	wedgeAngle := 2 * math.Pi / float64(n)

	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			dx := float64(x) - cx
			dy := cy - float64(y)
			r := math.Hypot(dx, dy)
			if r > radius+0.5 {
				continue
			}
			theta := math.Atan2(dx, dy)
			if theta < 0 {
				theta += 2 * math.Pi
			}
			wedge := int(theta / wedgeAngle)
			if wedge >= n {
				wedge = n - 1
			}
			reach := radius * float64(s.Points[wedge].Value) / s.AxisMax
			if r <= reach {
				setBrailleDot(layers[wedge], x, y)
				continue
			}
			if onRing(r, radius, s.AxisMax, s.TickStep) {
				setBrailleDot(ringLayer, x, y)
			}
		}
	}

	lines := make([]string, 0, rows)
	for y := 0; y < rows; y++ {
		var row strings.Builder
		for x := 0; x < cols; x++ {
			mask, layer := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if !useColor || layer < 0 {
				row.WriteRune(ch)
				continue
			}
			if layer == n {
				row.WriteString(ringColor)
			} else {
				row.WriteString(ansiForeground(s.Points[layer].Color))
			}
			row.WriteRune(ch)
			row.WriteString(colorReset)
		}
		lines = append(lines, row.String())
	}
	return lines
}

func onRing(r, radius, axisMax float64, tickStep int) bool {
	if math.Abs(r-radius) < 0.5 {
		return true
	}
	if tickStep <= 0 {
		return false
	}
	for t := float64(tickStep); t < axisMax; t += float64(tickStep) {
		if math.Abs(r-radius*t/axisMax) < 0.5 {
			return true
		}
	}
	return false
}

func ansiForeground(c dial.Color) string {
	r, g, b := c.RGB().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}
