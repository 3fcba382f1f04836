// Package nodelink renders decorated water networks as node-link diagrams.
//
// # Overview
//
// [ToDOT] turns an [annotate.Graph] into Graphviz DOT source: nodes carry
// their labels, HSV fill colors and pinned positions, edges their labels,
// colors and styles. [Render] lays the DOT out and rasterizes it in process.
//
// # Usage
//
//	dot := nodelink.ToDOT(g)
//	out, err := nodelink.Render(ctx, dot, "neato", nodelink.FormatSVG)
//	if out.FellBack {
//	    logger.Warn("layout not supported, used dot", "layout", "neato")
//	}
//
// # Layouts
//
// Any Graphviz engine listed in [Layouts] may be requested. Pinned positions
// only take effect with neato and fdp. When the requested engine is unknown,
// or fails on the graph, rendering falls back to dot and the result reports
// it.
//
// # Dependencies
//
// DOT source is built with [github.com/emicklei/dot] and rendered by
// [github.com/goccy/go-graphviz], which embeds Graphviz and needs no system
// install. PDF conversion lives in the parent render package.
package nodelink
