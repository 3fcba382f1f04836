package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/render"
	"github.com/matzehuels/hydrograph/pkg/render/document"
	"github.com/matzehuels/hydrograph/pkg/render/legend"
	"github.com/matzehuels/hydrograph/pkg/render/nodelink"
)

// Rendered is the output of RenderGraph.
type Rendered struct {
	Artifacts map[string][]byte
	Layout    string
	FellBack  bool
}

// RenderGraph renders DOT source in the requested formats. PDF is produced
// with rsvg-convert when installed and otherwise by wrapping the PNG
// rendering in a single-page document.
func RenderGraph(ctx context.Context, src, layout string, formats []string, logger *log.Logger) (*Rendered, error) {
	out := &Rendered{Artifacts: make(map[string][]byte), Layout: layout}
	if logger == nil {
		logger = log.Default()
	}

	engine := func(format string) ([]byte, error) {
		o, err := nodelink.Render(ctx, src, layout, format)
		if err != nil {
			return nil, err
		}
		if o.FellBack && !out.FellBack {
			logger.Warn("layout unavailable, using dot", "requested", layout)
		}
		out.Layout, out.FellBack = o.Layout, o.FellBack
		return o.Data, nil
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(src)
		case FormatSVG, FormatPNG:
			data, err = engine(format)
		case FormatPDF:
			data, err = renderPDF(ctx, engine, logger)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		out.Artifacts[format] = data
	}
	return out, nil
}

func renderPDF(ctx context.Context, engine func(string) ([]byte, error), logger *log.Logger) ([]byte, error) {
	if render.HasPDFToolkit() {
		svg, err := engine(FormatSVG)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	}
	logger.Debug("rsvg-convert not found, embedding PNG in PDF")
	png, err := engine(FormatPNG)
	if err != nil {
		return nil, err
	}
	return document.Compose([]document.Page{{Name: "graph", PNG: png}}, document.Options{})
}

// RenderLegend draws the color bar as PNG.
func RenderLegend(l annotate.Legend) ([]byte, error) {
	return legend.Render(l, FormatPNG, legend.Options{})
}

// ComposeDocument places the color bar on the first page and the graph on
// the second.
func ComposeDocument(title string, legendPNG, graphPNG []byte) ([]byte, error) {
	return document.Compose([]document.Page{
		{Name: "colorbar", PNG: legendPNG},
		{Name: "graph", PNG: graphPNG},
	}, document.Options{Title: title})
}
