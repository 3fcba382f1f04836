// Package render turns decorated networks into image files and documents.
//
// # Overview
//
//   - [nodelink]: DOT generation and in-process Graphviz rendering (SVG, PNG)
//   - [legend]: the color-bar legend matching node fill colors
//   - [document]: multi-page PDF assembly (legend page, then graph page)
//
// This package itself converts SVG to PDF with the external rsvg-convert
// tool when it is installed, which keeps the graph page vector-based:
//
//	svg, _ := nodelink.Render(ctx, dot, "neato", nodelink.FormatSVG)
//	pdf, err := render.ToPDF(ctx, svg.Data)
//
// [nodelink]: github.com/matzehuels/hydrograph/pkg/render/nodelink
// [legend]: github.com/matzehuels/hydrograph/pkg/render/legend
// [document]: github.com/matzehuels/hydrograph/pkg/render/document
package render
