package chart

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/primedial/internal/dial"
	"github.com/verte-zerg/primedial/internal/prime"
)

func sampleSeries(t *testing.T, min, max, limit int) dial.Series {
	t.Helper()
	s, err := dial.Sample(prime.Generate(min, max), limit)
	require.NoError(t, err)
	return s
}

func TestDialLinesDimensions(t *testing.T) {
	s := sampleSeries(t, 1, 100, 50)
	lines := DialLines(s, 8, false)
	require.Len(t, lines, 8)
	for _, line := range lines {
		assert.Equal(t, 16, utf8.RuneCountInString(line))
	}
}

func TestDialLinesWedgeStartsAtTwelveClockwise(t *testing.T) {
	s := dial.Series{
		Points: []dial.Point{
			{Label: "1", Value: 10},
			{Label: "2", Value: 0},
			{Label: "3", Value: 0},
			{Label: "4", Value: 0},
		},
		AxisMax:     11,
		Highlighted: -1,
	}
	lines := DialLines(s, 8, false)
	require.Len(t, lines, 8)
	row := []rune(lines[2])
	assert.Equal(t, '⣿', row[11], "upper-right quadrant belongs to the first wedge")
	assert.Equal(t, brailleFromMask(0), row[4], "upper-left quadrant belongs to the empty last wedge")
	assert.Equal(t, brailleFromMask(0), []rune(lines[5])[11], "lower-right quadrant belongs to an empty wedge")
}

func TestDialLinesCornersStayBlank(t *testing.T) {
	s := sampleSeries(t, 1, 100, 50)
	lines := DialLines(s, 8, false)
	blank := brailleFromMask(0)
	assert.Equal(t, blank, []rune(lines[0])[0])
	assert.Equal(t, blank, []rune(lines[7])[15])
}

func TestDialLinesColor(t *testing.T) {
	s := dial.Highlight(sampleSeries(t, 1, 30, 50), 1, 9)
	colored := strings.Join(DialLines(s, 6, true), "\n")
	assert.Contains(t, colored, "\x1b[38;2;255;0;0m")
	assert.Contains(t, colored, colorReset)

	plain := strings.Join(DialLines(s, 6, false), "\n")
	assert.NotContains(t, plain, "\x1b[")
}

func TestRenderDialEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDial(&buf, dial.Series{Highlighted: -1}, DialOptions{Title: "Dial", Rows: 6}))
	assert.Equal(t, "Dial\n"+emptyDialNote+"\n", buf.String())
}

func TestRenderDial(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	s := sampleSeries(t, 1, 100, 50)
	require.NoError(t, RenderDial(&buf, s, DialOptions{Title: "Primes 1-100", Rows: 6}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1+6+1)
	assert.Equal(t, "Primes 1-100", lines[0])
	assert.Equal(t, "Axis max: 106.7  Ring every: 20", lines[7])
}

func TestRenderDialNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	require.NoError(t, RenderDial(&buf, sampleSeries(t, 1, 100, 50), DialOptions{Rows: 6, Color: true}))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestDialRowsFor(t *testing.T) {
	assert.Equal(t, defaultDialRows, DialRowsFor(0, 0))
	assert.Equal(t, 20, DialRowsFor(80, 24))
	assert.Equal(t, 15, DialRowsFor(30, 50))
	assert.Equal(t, minDialRows, DialRowsFor(4, 4))
	assert.Equal(t, maxDialRows, DialRowsFor(500, 200))
}

func TestTableLines(t *testing.T) {
	s := dial.Highlight(sampleSeries(t, 1, 12, 50), 1, 2)
	lines := TableLines(s)
	require.Len(t, lines, 6)
	assert.Equal(t, "Position Prime  ", lines[0])
	assert.Equal(t, "       1     2  ", lines[1])
	assert.Equal(t, "       3     5 *", lines[3])
	assert.Equal(t, "       5    11  ", lines[5])
}

func TestRenderTableTrimsTrailingSpace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sampleSeries(t, 1, 5, 50)))
	assert.Equal(t, "Position Prime\n       1     2\n       2     3\n       3     5\n", buf.String())
}

func TestSummaryLines(t *testing.T) {
	s := sampleSeries(t, 1, 1000, 50)
	lines := SummaryLines(s)
	assert.Equal(t, []string{
		"Primes in range: 168",
		"Shown: 50 (every 3)",
		"Largest shown: 857",
	}, lines)

	h := dial.Highlight(s, s.Step, 3)
	lines = SummaryLines(h)
	assert.Equal(t, "Highlighted: Position: 4, Prime: 7", lines[len(lines)-1])
}

func TestTooltip(t *testing.T) {
	assert.Equal(t, []string{"Position: 4", "Prime: 7"}, Tooltip(dial.Point{Label: "4", Value: 7}))
}

func TestFormatTableAlignsWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"素数", "2"}, {"a", "10"}}, map[int]bool{1: true})
	require.Len(t, lines, 3)
	assert.Equal(t, "Name  N", lines[0])
	assert.Equal(t, "素数  2", lines[1])
	assert.Equal(t, "a    10", lines[2])
}
