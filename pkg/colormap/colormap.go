// Package colormap maps normalized scalar values to colors for node fills
// and the color-bar legend.
//
// A [Map] interpolates a small set of control colors of a perceptually
// uniform colormap and satisfies gonum's [palette.ColorMap], so the same map
// drives both the Graphviz fill colors and the gonum/plot color bar.
//
// Graphviz accepts fill colors as "H S V" triples in [0,1]; [GraphvizHSV]
// formats a color that way and [IsDark] decides when a label needs a white
// font to stay readable.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/palette"

	"github.com/matzehuels/hydrograph/pkg/errors"
)

// Default is the colormap used when none is configured.
const Default = "viridis"

// DarkThreshold is the HSV value below which labels are drawn in white.
const DarkThreshold = 0.6

// Control colors sampled at eleven evenly spaced positions.
var controls = map[string][]string{
	"viridis": {"#440154", "#482475", "#414487", "#355f8d", "#2a788e", "#21918c", "#22a884", "#44bf70", "#7ad151", "#bddf26", "#fde725"},
	"plasma":  {"#0d0887", "#41049d", "#6a00a8", "#8f0da4", "#b12a90", "#cc4778", "#e16462", "#f2844b", "#fca636", "#fcce25", "#f0f921"},
	"inferno": {"#000004", "#160b39", "#420a68", "#6a176e", "#932667", "#bc3754", "#dd513a", "#f37819", "#fca50a", "#f6d746", "#fcffa4"},
	"magma":   {"#000004", "#140e36", "#3b0f70", "#641a80", "#8c2981", "#b73779", "#de4968", "#f7705c", "#fe9f6d", "#fecf92", "#fcfdbf"},
}

// Names returns the available colormap names in sorted order.
func Names() []string {
	names := make([]string, 0, len(controls))
	for k := range controls {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Valid reports whether name is a known colormap.
func Valid(name string) bool {
	_, ok := controls[name]
	return ok
}

// Map is a named colormap over the range [Min, Max].
type Map struct {
	name     string
	stops    []colorful.Color
	min, max float64
	alpha    float64
}

// New returns the named colormap over [0, 1].
func New(name string) (*Map, error) {
	hex, ok := controls[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidColormap,
			"unknown colormap %q (available: %v)", name, Names())
	}
	stops := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "colormap %s", name)
		}
		stops[i] = c
	}
	return &Map{name: name, stops: stops, min: 0, max: 1, alpha: 1}, nil
}

// Name returns the colormap name.
func (m *Map) Name() string { return m.name }

// Fraction returns the color at t in [0,1]; t is clamped.
func (m *Map) Fraction(t float64) colorful.Color {
	if math.IsNaN(t) || t <= 0 {
		return m.stops[0]
	}
	if t >= 1 {
		return m.stops[len(m.stops)-1]
	}
	pos := t * float64(len(m.stops)-1)
	i := int(pos)
	return m.stops[i].BlendRgb(m.stops[i+1], pos-float64(i)).Clamped()
}

// At implements palette.ColorMap.
func (m *Map) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < m.min:
		return nil, palette.ErrUnderflow
	case v > m.max:
		return nil, palette.ErrOverflow
	}
	t := 0.5
	if m.max > m.min {
		t = (v - m.min) / (m.max - m.min)
	}
	return m.withAlpha(m.Fraction(t)), nil
}

func (m *Map) withAlpha(c colorful.Color) color.Color {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(m.alpha * 255))}
}

// Max implements palette.ColorMap.
func (m *Map) Max() float64 { return m.max }

// SetMax implements palette.ColorMap.
func (m *Map) SetMax(v float64) { m.max = v }

// Min implements palette.ColorMap.
func (m *Map) Min() float64 { return m.min }

// SetMin implements palette.ColorMap.
func (m *Map) SetMin(v float64) { m.min = v }

// Alpha implements palette.ColorMap.
func (m *Map) Alpha() float64 { return m.alpha }

// SetAlpha implements palette.ColorMap.
func (m *Map) SetAlpha(a float64) {
	if a < 0 || a > 1 {
		panic(fmt.Sprintf("colormap: alpha %v out of range", a))
	}
	m.alpha = a
}

// Palette implements palette.ColorMap, sampling n evenly spaced colors.
func (m *Map) Palette(n int) palette.Palette {
	cols := make(colors, n)
	for i := range cols {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		cols[i] = m.withAlpha(m.Fraction(t))
	}
	return cols
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }

var _ palette.ColorMap = (*Map)(nil)

// Normalize rescales values to [0,1] by their min and max. When all values
// are equal every value maps to 0.5.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			out[i] = 0.5
			continue
		}
		out[i] = (v - lo) / span
	}
	return out
}

// Range returns the min and max of values; ok is false for an empty slice.
func Range(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	return floats.Min(values), floats.Max(values), true
}

// HSV returns hue, saturation and value of c, each in [0,1].
func HSV(c colorful.Color) (h, s, v float64) {
	h, s, v = c.Hsv()
	return h / 360, s, v
}

// GraphvizHSV formats c as a Graphviz "H S V" color.
func GraphvizHSV(c colorful.Color) string {
	h, s, v := HSV(c)
	return fmt.Sprintf("%.3f %.3f %.3f", h, s, v)
}

// IsDark reports whether labels on c should be drawn in white.
func IsDark(c colorful.Color) bool {
	_, _, v := HSV(c)
	return v < DarkThreshold
}

