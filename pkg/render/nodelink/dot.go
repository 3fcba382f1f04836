package nodelink

import (
	"github.com/emicklei/dot"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/network"
)

// Graph-wide attributes of the generated DOT.
var graphAttrs = [][2]string{
	{"bgcolor", "white"},
	{"overlap", "false"},
	{"fontname", "Helvetica"},
	{"fontsize", "10"},
}

// ToDOT converts a decorated network to Graphviz DOT source.
func ToDOT(g *annotate.Graph) string {
	d := dot.NewGraph(dot.Directed)
	if g.Name != "" {
		d.Attr("label", g.Name)
		d.Attr("labelloc", "t")
	}
	for _, kv := range graphAttrs {
		d.Attr(kv[0], kv[1])
	}

	nodes := make(map[string]dot.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		dn := d.Node(n.ID).Label(n.Label).Attr("fontname", "Helvetica").Attr("shape", shapeFor(n))
		if n.Pos != "" {
			dn.Attr("pos", n.Pos)
		}
		if n.FillColor != "" {
			dn.Attr("style", "filled")
			dn.Attr("fillcolor", n.FillColor)
		}
		if n.FontColor != "" {
			dn.Attr("fontcolor", n.FontColor)
		}
		nodes[n.ID] = dn
	}

	for _, e := range g.Edges {
		from, okFrom := nodes[e.From]
		to, okTo := nodes[e.To]
		if !okFrom || !okTo {
			continue
		}
		de := d.Edge(from, to).Label(e.Label).Attr("fontname", "Helvetica").Attr("fontsize", "9")
		if e.Color != "" {
			de.Attr("color", e.Color)
			de.Attr("fontcolor", e.Color)
		}
		if e.Style != "" {
			de.Attr("style", e.Style)
		}
		if e.Reverse {
			de.Attr("dir", "back")
		}
	}

	return d.String()
}

func shapeFor(n annotate.Node) string {
	switch n.Kind {
	case network.Reservoir:
		return "invtrapezium"
	case network.Tank:
		return "box"
	default:
		return "ellipse"
	}
}
