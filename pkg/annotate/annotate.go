package annotate

import (
	"math"
	"strconv"

	"github.com/matzehuels/hydrograph/pkg/colormap"
	"github.com/matzehuels/hydrograph/pkg/errors"
	"github.com/matzehuels/hydrograph/pkg/network"
	"github.com/matzehuels/hydrograph/pkg/results"
)

// Color-by quantities.
const (
	ColorByElevation = "elevation"
	ColorByHead      = "head"
)

// Defaults for Options.
const (
	DefaultScale        = 20.0
	DefaultTime         = 1
	DefaultDemandDigits = 6
)

// demandEpsilon is the smallest base demand that marks a junction as a
// demand node.
const demandEpsilon = 1e-12

// Legend labels per color-by quantity.
var legendLabels = map[string]string{
	ColorByElevation: "Elevation [m]",
	ColorByHead:      "Head [m]",
}

// Options configures annotation.
type Options struct {
	// Time is the 1-based hour to annotate. It is required; callers
	// usually pass DefaultTime.
	Time int
	// Scale is the extent of the rescaled coordinate box.
	Scale float64
	// Colormap names the colormap used for node fills.
	Colormap string
	// ColorBy selects the colored quantity: elevation or head.
	ColorBy string
	// DemandDigits is the number of significant digits in demand and
	// result labels.
	DemandDigits int
}

// WithDefaults returns a copy of o with zero fields set to defaults.
// Time has no default: hour 0 is rejected by Validate.
func (o Options) WithDefaults() Options {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Colormap == "" {
		o.Colormap = colormap.Default
	}
	if o.ColorBy == "" {
		o.ColorBy = ColorByElevation
	}
	if o.DemandDigits == 0 {
		o.DemandDigits = DefaultDemandDigits
	}
	return o
}

// Validate checks option values independently of any network.
func (o Options) Validate() error {
	if o.Time < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "time must be a positive hour, got %d", o.Time)
	}
	if o.Scale <= 0 || math.IsInf(o.Scale, 0) || math.IsNaN(o.Scale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if !colormap.Valid(o.Colormap) {
		return errors.New(errors.ErrCodeInvalidColormap, "unknown colormap %q (available: %v)", o.Colormap, colormap.Names())
	}
	if _, ok := legendLabels[o.ColorBy]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "color-by must be %q or %q, got %q", ColorByElevation, ColorByHead, o.ColorBy)
	}
	if o.DemandDigits < 1 || o.DemandDigits > 17 {
		return errors.New(errors.ErrCodeInvalidInput, "demand digits must be in 1..17, got %d", o.DemandDigits)
	}
	return nil
}

// Node is a decorated network node.
type Node struct {
	ID    string
	Kind  network.NodeType
	Label string

	// Pos is the pinned Graphviz position, empty for nodes without
	// coordinates.
	Pos  string
	X, Y float64

	// Value is the colored quantity; Colored is false when it is unknown.
	Value     float64
	Colored   bool
	FillColor string
	FontColor string
}

// Edge is a decorated network link.
type Edge struct {
	ID       string
	Kind     network.LinkType
	From, To string
	Label    string
	Color    string
	Style    string
	// Reverse draws the arrow against the link direction.
	Reverse bool
}

// Legend describes the color bar matching the node fills.
type Legend struct {
	Label    string
	Colormap string
	Min, Max float64
}

// Graph is the decorated network.
type Graph struct {
	Name   string
	Time   int
	Step   int
	Nodes  []Node
	Edges  []Edge
	Legend Legend
	// HasResults is true when simulation results were overlaid.
	HasResults bool
}

// Build decorates net at the configured time. res may be nil.
func Build(net *network.Network, res *results.Results, opts Options) (*Graph, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cmap, err := colormap.New(opts.Colormap)
	if err != nil {
		return nil, err
	}

	step := PatternStep(net, opts.Time)
	resIdx := -1
	if res != nil {
		resIdx, err = res.Index(Seconds(opts.Time))
		if err != nil {
			return nil, err
		}
	}
	if opts.ColorBy == ColorByHead && (res == nil || !res.HasNode(results.Head)) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "coloring by head requires results with node head")
	}

	g := &Graph{
		Name:       net.Name,
		Time:       opts.Time,
		Step:       step,
		HasResults: res != nil,
	}

	pos := newRescaler(net.Nodes(), opts.Scale)
	for _, n := range net.Nodes() {
		node := Node{ID: n.Name, Kind: n.Type, Label: nodeLabel(net, n, step, opts.DemandDigits)}
		if x, y, ok := pos.at(n); ok {
			node.X, node.Y = x, y
			node.Pos = formatPos(x, y)
		}
		if res != nil {
			if h, ok := res.NodeValue(results.Head, n.Name, resIdx); ok {
				node.Label += "\nh = " + formatNumber(h, opts.DemandDigits)
			}
		}
		switch opts.ColorBy {
		case ColorByHead:
			node.Value, node.Colored = res.NodeValue(results.Head, n.Name, resIdx)
		default:
			node.Value, node.Colored = net.ElevationAt(n, step), true
		}
		g.Nodes = append(g.Nodes, node)
	}

	g.Legend = colorNodes(g.Nodes, cmap, opts.ColorBy)

	for _, l := range net.Links() {
		e := decorateLink(l)
		if res != nil {
			if q, ok := res.LinkValue(results.FlowRate, l.Name, resIdx); ok {
				e.Label += "\nq = " + formatNumber(q, opts.DemandDigits)
				e.Reverse = q < 0
			}
		}
		g.Edges = append(g.Edges, e)
	}

	return g, nil
}

// PatternStep converts a 1-based hour into a zero-based pattern step using
// the network pattern timestep.
func PatternStep(net *network.Network, hour int) int {
	ts := net.Options.PatternTimestep
	if ts <= 0 {
		ts = network.DefaultPatternTimestep
	}
	return int(Seconds(hour) / ts)
}

// Seconds converts a 1-based hour into simulation seconds.
func Seconds(hour int) int64 {
	return int64(hour-1) * 3600
}

func nodeLabel(net *network.Network, n *network.Node, step, digits int) string {
	switch n.Type {
	case network.Reservoir:
		return "Rsvr\n" + n.Name
	case network.Tank:
		return "Tank\n" + n.Name
	}
	if net.BaseDemand(n) > demandEpsilon {
		return n.Name + "\nd = " + formatNumber(net.DemandAt(n, step), digits)
	}
	return n.Name
}

func decorateLink(l *network.Link) Edge {
	e := Edge{ID: l.Name, Kind: l.Type, From: l.Start, To: l.End, Label: l.Name}
	switch {
	case l.Type == network.Pump:
		e.Color = "red"
		e.Style = "bold"
		e.Label = "Pmp\n" + l.Name
	case l.HasCheckValve():
		e.Label = "CV\n" + l.Name
	case l.Type == network.Valve:
		kind := l.ValveType
		if kind == "" {
			kind = "Vlv"
		}
		e.Label = kind + "\n" + l.Name
	}
	if l.IsClosed() {
		if e.Style == "" {
			e.Style = "dashed"
		} else {
			e.Style += ",dashed"
		}
	}
	return e
}

func colorNodes(nodes []Node, cmap *colormap.Map, colorBy string) Legend {
	var values []float64
	for _, n := range nodes {
		if n.Colored {
			values = append(values, n.Value)
		}
	}
	legend := Legend{Label: legendLabels[colorBy], Colormap: cmap.Name()}
	lo, hi, ok := colormap.Range(values)
	if !ok {
		return legend
	}
	legend.Min, legend.Max = lo, hi

	rel := colormap.Normalize(values)
	k := 0
	for i := range nodes {
		if !nodes[i].Colored {
			continue
		}
		c := cmap.Fraction(rel[k])
		k++
		nodes[i].FillColor = colormap.GraphvizHSV(c)
		if colormap.IsDark(c) {
			nodes[i].FontColor = "white"
		}
	}
	return legend
}

func formatNumber(v float64, digits int) string {
	return strconv.FormatFloat(v, 'g', digits, 64)
}

func formatPos(x, y float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64) + "," + strconv.FormatFloat(y, 'f', -1, 64) + "!"
}
