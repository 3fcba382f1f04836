// Package pipeline runs the hydrograph visualization pipeline.
//
// A run takes a loaded network, and optionally simulation results, through
// four stages:
//
//  1. Annotate: decorate nodes and edges with labels, colors and positions
//  2. DOT: serialize the decorated graph
//  3. Render: lay out and rasterize with Graphviz (svg, png, pdf)
//  4. Legend: draw the color bar and combine it with the graph into a
//     two-page PDF document
//
// Rendered artifacts are cached by a hash of the DOT source and the render
// options, so the CLI and the preview server skip Graphviz for unchanged
// inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, net, res, pipeline.Options{
//	    Time:    3,
//	    Layout:  "neato",
//	    Formats: []string{"svg"},
//	    Legend:  true,
//	})
//	svg := result.Artifacts["svg"]
//	doc := result.Artifacts["document"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/cache"
	"github.com/matzehuels/hydrograph/pkg/errors"
	"github.com/matzehuels/hydrograph/pkg/render/nodelink"
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// Artifact keys for the legend outputs.
const (
	// ArtifactLegend is the color bar as PNG.
	ArtifactLegend = "legend"
	// ArtifactDocument is the color bar page followed by the graph page.
	ArtifactDocument = "document"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// Options contains all configuration for the visualization pipeline.
type Options struct {
	// Annotate options
	Time         int     `json:"time,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	Colormap     string  `json:"colormap,omitempty"`
	ColorBy      string  `json:"color_by,omitempty"`
	DemandDigits int     `json:"demand_digits,omitempty"`

	// Render options
	Layout  string   `json:"layout,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Legend  bool     `json:"legend,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the decorated network.
	Graph *annotate.Graph

	// DOT is the Graphviz source rendered.
	DOT string

	// SourceHash is the content hash of DOT.
	SourceHash string

	// Layout is the engine that produced the artifacts.
	Layout string

	// FellBack is true when the requested engine was replaced by dot.
	FellBack bool

	// Artifacts contains rendered outputs keyed by format, plus
	// ArtifactLegend and ArtifactDocument when Options.Legend is set.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	AnnotateTime time.Duration
	RenderTime   time.Duration
	LegendTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all graph artifacts came from cache
	LegendHit bool // Whether the color bar came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent. An unknown layout is not an error: rendering
// falls back to dot.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	ao := o.AnnotateOptions().WithDefaults()
	if err := ao.Validate(); err != nil {
		return err
	}
	o.Time, o.Scale, o.Colormap, o.ColorBy, o.DemandDigits = ao.Time, ao.Scale, ao.Colormap, ao.ColorBy, ao.DemandDigits

	if o.Layout == "" {
		o.Layout = nodelink.DefaultLayout
	}
	if len(o.Formats) == 0 && !o.Legend {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// AnnotateOptions returns the options for the annotate stage.
func (o *Options) AnnotateOptions() annotate.Options {
	return annotate.Options{
		Time:         o.Time,
		Scale:        o.Scale,
		Colormap:     o.Colormap,
		ColorBy:      o.ColorBy,
		DemandDigits: o.DemandDigits,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Layout: o.Layout,
		Kind:   "graph",
	}
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// String summarizes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("time=%d layout=%s colorby=%s formats=%v legend=%v", o.Time, o.Layout, o.ColorBy, o.Formats, o.Legend)
}
