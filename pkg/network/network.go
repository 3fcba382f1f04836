package network

import (
	"fmt"
	"strings"
)

// NodeType classifies network nodes.
type NodeType string

// Node types as named by the modeling library.
const (
	Junction  NodeType = "Junction"
	Tank      NodeType = "Tank"
	Reservoir NodeType = "Reservoir"
)

// LinkType classifies network links.
type LinkType string

// Link types as named by the modeling library.
const (
	Pipe  LinkType = "Pipe"
	Pump  LinkType = "Pump"
	Valve LinkType = "Valve"
)

// Status is the initial status of a link.
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
	StatusActive Status = "Active"
	StatusCV     Status = "CV"
)

// Point is a node coordinate in model units.
type Point struct {
	X, Y float64
}

// Demand is one entry of a junction's demand list.
type Demand struct {
	Base     float64
	Pattern  string
	Category string
}

// Node is a junction, tank or reservoir.
type Node struct {
	Name string
	Type NodeType

	// Elevation is set for junctions and tanks.
	Elevation float64
	// BaseHead and HeadPattern are set for reservoirs.
	BaseHead    float64
	HeadPattern string
	// InitLevel is the initial water level of a tank.
	InitLevel float64

	Coordinates *Point
	Demands     []Demand
}

// Link is a pipe, pump or valve between two nodes.
type Link struct {
	Name       string
	Type       LinkType
	Start, End string

	CheckValve bool
	ValveType  string
	PumpType   string
	Status     Status
}

// IsClosed reports whether the link starts closed.
func (l *Link) IsClosed() bool {
	return l.Status == StatusClosed
}

// HasCheckValve reports whether the link is a pipe fitted with a check valve.
func (l *Link) HasCheckValve() bool {
	return l.Type == Pipe && (l.CheckValve || l.Status == StatusCV)
}

// Pattern is a named sequence of multipliers.
type Pattern struct {
	Name        string
	Multipliers []float64
}

// At returns the multiplier at a zero-based step, cycling through the
// multipliers. An empty pattern is constant 1.
func (p *Pattern) At(step int) float64 {
	n := len(p.Multipliers)
	if n == 0 {
		return 1
	}
	i := step % n
	if i < 0 {
		i += n
	}
	return p.Multipliers[i]
}

// Options holds the network options relevant to presentation.
type Options struct {
	// DefaultPattern applies to demands without an explicit pattern.
	DefaultPattern string
	// PatternTimestep is the duration of one pattern step in seconds.
	PatternTimestep int64
}

// DefaultPatternTimestep is used when the document carries no pattern timestep.
const DefaultPatternTimestep = 3600

// Network is the decoded water-distribution model.
type Network struct {
	Name     string
	Options  Options
	patterns map[string]*Pattern
	nodes    []*Node
	links    []*Link
	nodeIdx  map[string]int
	linkIdx  map[string]int
}

// New returns an empty network.
func New(name string) *Network {
	return &Network{
		Name:     name,
		Options:  Options{PatternTimestep: DefaultPatternTimestep},
		patterns: make(map[string]*Pattern),
		nodeIdx:  make(map[string]int),
		linkIdx:  make(map[string]int),
	}
}

// AddNode appends a node. Names must be unique.
func (n *Network) AddNode(node Node) error {
	if node.Name == "" {
		return fmt.Errorf("node without name")
	}
	if _, ok := n.nodeIdx[node.Name]; ok {
		return fmt.Errorf("duplicate node %q", node.Name)
	}
	switch node.Type {
	case Junction, Tank, Reservoir:
	default:
		return fmt.Errorf("node %q: unknown node type %q", node.Name, node.Type)
	}
	n.nodeIdx[node.Name] = len(n.nodes)
	n.nodes = append(n.nodes, &node)
	return nil
}

// AddLink appends a link. Both end nodes must already exist.
func (n *Network) AddLink(link Link) error {
	if link.Name == "" {
		return fmt.Errorf("link without name")
	}
	if _, ok := n.linkIdx[link.Name]; ok {
		return fmt.Errorf("duplicate link %q", link.Name)
	}
	switch link.Type {
	case Pipe, Pump, Valve:
	default:
		return fmt.Errorf("link %q: unknown link type %q", link.Name, link.Type)
	}
	for _, end := range []string{link.Start, link.End} {
		if _, ok := n.nodeIdx[end]; !ok {
			return fmt.Errorf("link %q: unknown node %q", link.Name, end)
		}
	}
	n.linkIdx[link.Name] = len(n.links)
	n.links = append(n.links, &link)
	return nil
}

// AddPattern registers a pattern, replacing any pattern with the same name.
func (n *Network) AddPattern(p Pattern) {
	n.patterns[p.Name] = &p
}

// Nodes returns the nodes in document order.
func (n *Network) Nodes() []*Node { return n.nodes }

// Links returns the links in document order.
func (n *Network) Links() []*Link { return n.links }

// Node looks up a node by name.
func (n *Network) Node(name string) (*Node, bool) {
	i, ok := n.nodeIdx[name]
	if !ok {
		return nil, false
	}
	return n.nodes[i], true
}

// Link looks up a link by name.
func (n *Network) Link(name string) (*Link, bool) {
	i, ok := n.linkIdx[name]
	if !ok {
		return nil, false
	}
	return n.links[i], true
}

// Pattern looks up a pattern by name.
func (n *Network) Pattern(name string) (*Pattern, bool) {
	p, ok := n.patterns[name]
	return p, ok
}

// PatternCount returns the number of registered patterns.
func (n *Network) PatternCount() int { return len(n.patterns) }

// Multiplier resolves a pattern multiplier at a zero-based step. A blank
// name falls back to the network default pattern; a missing pattern is
// constant 1.
func (n *Network) Multiplier(pattern string, step int) float64 {
	if strings.TrimSpace(pattern) == "" {
		pattern = n.Options.DefaultPattern
	}
	if p, ok := n.patterns[pattern]; ok {
		return p.At(step)
	}
	return 1
}

// BaseDemand returns the summed base demand of a node.
func (n *Network) BaseDemand(node *Node) float64 {
	var sum float64
	for _, d := range node.Demands {
		sum += d.Base
	}
	return sum
}

// DemandAt returns the demand of a node at a zero-based pattern step.
func (n *Network) DemandAt(node *Node, step int) float64 {
	var sum float64
	for _, d := range node.Demands {
		sum += d.Base * n.Multiplier(d.Pattern, step)
	}
	return sum
}

// ElevationAt returns the elevation used for coloring: the elevation of
// junctions and tanks, and for reservoirs the base head scaled by the head
// pattern at the step. Reservoirs without a head pattern keep their base head.
func (n *Network) ElevationAt(node *Node, step int) float64 {
	if node.Type != Reservoir {
		return node.Elevation
	}
	if node.HeadPattern == "" {
		return node.BaseHead
	}
	if p, ok := n.patterns[node.HeadPattern]; ok {
		return node.BaseHead * p.At(step)
	}
	return node.BaseHead
}

// Counts summarizes a network by element type.
type Counts struct {
	Junctions, Tanks, Reservoirs int
	Pipes, Pumps, Valves         int
	CheckValves                  int
}

// Counts tallies nodes and links by type.
func (n *Network) Counts() Counts {
	var c Counts
	for _, node := range n.nodes {
		switch node.Type {
		case Junction:
			c.Junctions++
		case Tank:
			c.Tanks++
		case Reservoir:
			c.Reservoirs++
		}
	}
	for _, l := range n.links {
		switch l.Type {
		case Pipe:
			c.Pipes++
			if l.HasCheckValve() {
				c.CheckValves++
			}
		case Pump:
			c.Pumps++
		case Valve:
			c.Valves++
		}
	}
	return c
}
