package annotate

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/hydrograph/pkg/network"
)

// rescaler maps model coordinates into [0, scale] on each axis. An axis
// with zero span collapses to 0.
type rescaler struct {
	scale        float64
	xmin, xspan  float64
	ymin, yspan  float64
	hasPositions bool
}

func newRescaler(nodes []*network.Node, scale float64) rescaler {
	var xs, ys []float64
	for _, n := range nodes {
		if n.Coordinates == nil {
			continue
		}
		xs = append(xs, n.Coordinates.X)
		ys = append(ys, n.Coordinates.Y)
	}
	r := rescaler{scale: scale}
	if len(xs) == 0 {
		return r
	}
	r.hasPositions = true
	r.xmin, r.ymin = floats.Min(xs), floats.Min(ys)
	r.xspan = floats.Max(xs) - r.xmin
	r.yspan = floats.Max(ys) - r.ymin
	return r
}

func (r rescaler) at(n *network.Node) (x, y float64, ok bool) {
	if !r.hasPositions || n.Coordinates == nil {
		return 0, 0, false
	}
	return r.axis(n.Coordinates.X, r.xmin, r.xspan), r.axis(n.Coordinates.Y, r.ymin, r.yspan), true
}

func (r rescaler) axis(v, min, span float64) float64 {
	if span == 0 {
		return 0
	}
	return r.scale * (v - min) / span
}
