// Package legend draws the horizontal color bar that explains node fill
// colors.
//
// The bar spans the colored quantity's [Min, Max] with the same
// [colormap.Map] used for the fills, and is labelled with the quantity and
// unit ("Elevation [m]"). It is drawn with gonum/plot and can be written as
// PNG, SVG or PDF.
package legend

import (
	"bytes"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/colormap"
	"github.com/matzehuels/hydrograph/pkg/errors"
)

// Default bar size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 1 * vg.Inch
)

// Formats supported by Render.
var Formats = map[string]bool{"png": true, "svg": true, "pdf": true}

// Options configures the color bar.
type Options struct {
	Width, Height vg.Length
	// Colors is the number of discrete bands drawn.
	Colors int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Colors <= 0 {
		o.Colors = 256
	}
	return o
}

// Plot builds the color-bar plot for a legend drawn with the given number
// of color bands.
func Plot(l annotate.Legend, bands int) (*plot.Plot, error) {
	name := l.Colormap
	if name == "" {
		name = colormap.Default
	}
	cmap, err := colormap.New(name)
	if err != nil {
		return nil, err
	}

	lo, hi := l.Min, l.Max
	if hi <= lo {
		// A flat range still needs a drawable axis.
		lo, hi = lo-0.5, lo+0.5
	}
	cmap.SetMin(lo)
	cmap.SetMax(hi)

	p := plot.New()
	p.HideY()
	p.X.Padding = 0
	p.X.Label.Text = l.Label
	p.Add(&plotter.ColorBar{ColorMap: cmap, Colors: bands})
	return p, nil
}

// Render draws the legend in the given format ("png", "svg" or "pdf").
func Render(l annotate.Legend, format string, opts Options) ([]byte, error) {
	if !Formats[format] {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "legend format %q not supported", format)
	}
	opts = opts.withDefaults()

	p, err := Plot(l, opts.Colors)
	if err != nil {
		return nil, err
	}

	w, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "legend writer")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "write legend %s", format)
	}
	return buf.Bytes(), nil
}
