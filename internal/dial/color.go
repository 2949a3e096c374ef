package dial

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	paletteSaturation = 0.7
	paletteLightness  = 0.6
	paletteAlpha      = 0.7
	selectedAlpha     = 0.8
)

// Color is a translucent segment colour. String renders the CSS form used by
// web charting widgets; RGB gives the opaque colour for terminals.
type Color struct {
	css string
	rgb colorful.Color
}

// Selected is the override colour for a highlighted segment.
var Selected = Color{
	css: fmt.Sprintf("rgba(255, 0, 0, %s)", formatFloat(selectedAlpha)),
	rgb: colorful.Color{R: 1, G: 0, B: 0},
}

// ColorFor returns the base palette colour of segment index out of total.
// The hue is (index*360/total) mod 360 at fixed saturation and lightness.
func ColorFor(index, total int) (Color, error) {
	if total <= 0 {
		return Color{}, ErrDegenerateSeries
	}
	hue := math.Mod(float64(index)*360/float64(total), 360)
	return Color{
		css: fmt.Sprintf("hsla(%s, %d%%, %d%%, %s)",
			formatFloat(hue),
			int(paletteSaturation*100),
			int(paletteLightness*100),
			formatFloat(paletteAlpha)),
		rgb: colorful.Hsl(hue, paletteSaturation, paletteLightness),
	}, nil
}

// Palette returns the base colours for total segments.
func Palette(total int) ([]Color, error) {
	if total <= 0 {
		return nil, ErrDegenerateSeries
	}
	colors := make([]Color, total)
	for i := range colors {
		c, err := ColorFor(i, total)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

// String returns the CSS colour, e.g. "hsla(72, 70%, 60%, 0.7)".
func (c Color) String() string {
	return c.css
}

// RGB returns the opaque colour clamped to the sRGB gamut.
func (c Color) RGB() colorful.Color {
	return c.rgb.Clamped()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
