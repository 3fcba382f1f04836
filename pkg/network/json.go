package network

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/hydrograph/pkg/errors"
)

type document struct {
	Name     string          `json:"name"`
	Options  documentOptions `json:"options"`
	Patterns []jsonPattern   `json:"patterns"`
	Nodes    []jsonNode      `json:"nodes"`
	Links    []jsonLink      `json:"links"`
}

type documentOptions struct {
	Time struct {
		PatternTimestep int64 `json:"pattern_timestep"`
	} `json:"time"`
	Hydraulic struct {
		Pattern *string `json:"pattern"`
	} `json:"hydraulic"`
}

type jsonPattern struct {
	Name        string    `json:"name"`
	Multipliers []float64 `json:"multipliers"`
}

type jsonDemand struct {
	BaseVal     float64 `json:"base_val"`
	PatternName *string `json:"pattern_name"`
	Category    *string `json:"category"`
}

type jsonNode struct {
	Name            string       `json:"name"`
	NodeType        string       `json:"node_type"`
	Elevation       float64      `json:"elevation"`
	BaseHead        float64      `json:"base_head"`
	HeadPatternName *string      `json:"head_pattern_name"`
	InitLevel       float64      `json:"init_level"`
	Coordinates     []float64    `json:"coordinates"`
	Demands         []jsonDemand `json:"demand_timeseries_list"`
}

type jsonLink struct {
	Name          string `json:"name"`
	LinkType      string `json:"link_type"`
	StartNodeName string `json:"start_node_name"`
	EndNodeName   string `json:"end_node_name"`
	CheckValve    bool   `json:"check_valve"`
	ValveType     string `json:"valve_type"`
	PumpType      string `json:"pump_type"`
	InitialStatus string `json:"initial_status"`
}

// ReadJSON decodes a network document from r.
//
// ReadJSON returns an INVALID_NETWORK error if the document is malformed,
// names a node or link twice, uses an unknown node or link type, or has a
// link that references an unknown node. It does not close r.
func ReadJSON(r io.Reader) (*Network, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "decode network")
	}

	n := New(doc.Name)
	if doc.Options.Time.PatternTimestep > 0 {
		n.Options.PatternTimestep = doc.Options.Time.PatternTimestep
	}
	if p := doc.Options.Hydraulic.Pattern; p != nil {
		n.Options.DefaultPattern = *p
	}

	for _, p := range doc.Patterns {
		n.AddPattern(Pattern{Name: p.Name, Multipliers: p.Multipliers})
	}

	for _, jn := range doc.Nodes {
		node := Node{
			Name:      jn.Name,
			Type:      NodeType(normalizeKind(jn.NodeType)),
			Elevation: jn.Elevation,
			BaseHead:  jn.BaseHead,
			InitLevel: jn.InitLevel,
		}
		if jn.HeadPatternName != nil {
			node.HeadPattern = *jn.HeadPatternName
		}
		if len(jn.Coordinates) >= 2 {
			node.Coordinates = &Point{X: jn.Coordinates[0], Y: jn.Coordinates[1]}
		}
		for _, d := range jn.Demands {
			dem := Demand{Base: d.BaseVal}
			if d.PatternName != nil {
				dem.Pattern = *d.PatternName
			}
			if d.Category != nil {
				dem.Category = *d.Category
			}
			node.Demands = append(node.Demands, dem)
		}
		if err := n.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "node %s", jn.Name)
		}
	}

	for _, jl := range doc.Links {
		link := Link{
			Name:       jl.Name,
			Type:       LinkType(normalizeKind(jl.LinkType)),
			Start:      jl.StartNodeName,
			End:        jl.EndNodeName,
			CheckValve: jl.CheckValve,
			ValveType:  strings.ToUpper(jl.ValveType),
			PumpType:   jl.PumpType,
			Status:     Status(normalizeKind(jl.InitialStatus)),
		}
		if strings.EqualFold(jl.InitialStatus, "cv") {
			link.Status = StatusCV
		}
		if err := n.AddLink(link); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "link %s", jl.Name)
		}
	}

	return n, nil
}

// ImportJSON reads the network document at path.
func ImportJSON(path string) (*Network, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "network %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// normalizeKind maps "junction", "JUNCTION" and "Junction" to "Junction".
func normalizeKind(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
