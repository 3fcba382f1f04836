package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// Output formats rendered in process.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DefaultLayout is the Graphviz engine used when none is requested.
const DefaultLayout = "dot"

// Layouts maps engine names to Graphviz layouts.
var Layouts = map[string]graphviz.Layout{
	"dot":       graphviz.DOT,
	"neato":     graphviz.NEATO,
	"fdp":       graphviz.FDP,
	"sfdp":      graphviz.SFDP,
	"twopi":     graphviz.TWOPI,
	"circo":     graphviz.CIRCO,
	"osage":     graphviz.OSAGE,
	"patchwork": graphviz.PATCHWORK,
}

var formats = map[string]graphviz.Format{
	FormatSVG: graphviz.SVG,
	FormatPNG: graphviz.PNG,
}

// LayoutNames returns the supported engine names in sorted order.
func LayoutNames() []string {
	names := make([]string, 0, len(Layouts))
	for k := range Layouts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValidLayout reports whether name is a supported engine.
func ValidLayout(name string) bool {
	_, ok := Layouts[name]
	return ok
}

// Output is a rendered diagram.
type Output struct {
	Data []byte
	// Layout is the engine that produced Data.
	Layout string
	// FellBack is true when the requested engine was replaced by dot.
	FellBack bool
}

// Render lays out and rasterizes DOT source. Unknown engines, and engines
// that fail on the graph, fall back to dot.
func Render(ctx context.Context, src, layout, format string) (*Output, error) {
	gvFormat, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if layout == "" {
		layout = DefaultLayout
	}

	if _, known := Layouts[layout]; known {
		data, err := render(ctx, src, layout, gvFormat)
		if err == nil {
			return &Output{Data: postprocess(data, format), Layout: layout}, nil
		}
		if layout == DefaultLayout {
			return nil, err
		}
	}

	data, err := render(ctx, src, DefaultLayout, gvFormat)
	if err != nil {
		return nil, err
	}
	return &Output{Data: postprocess(data, format), Layout: DefaultLayout, FellBack: true}, nil
}

func render(ctx context.Context, src, layout string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(Layouts[layout])

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", layout, err)
	}
	return buf.Bytes(), nil
}

func postprocess(data []byte, format string) []byte {
	if format == FormatSVG {
		return normalizeViewBox(data)
	}
	return data
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
