package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/hydrograph/pkg/annotate"
)

func sampleGraph() *annotate.Graph {
	return &annotate.Graph{
		Name: "tiny",
		Nodes: []annotate.Node{
			{ID: "R1", Kind: "Reservoir", Label: "Rsvr\nR1", Pos: "0,0!", FillColor: "0.700 0.900 0.300", FontColor: "white"},
			{ID: "J1", Kind: "Junction", Label: "J1", Pos: "20,20!", FillColor: "0.150 0.850 0.990"},
			{ID: "T1", Kind: "Tank", Label: "Tank\nT1"},
		},
		Edges: []annotate.Edge{
			{ID: "PU1", From: "R1", To: "J1", Label: "Pmp\nPU1", Color: "red", Style: "bold"},
			{ID: "P1", From: "J1", To: "T1", Label: "P1", Reverse: true},
			{ID: "P2", From: "J1", To: "T1", Label: "P2"},
			{ID: "ghost", From: "J1", To: "nowhere", Label: "ghost"},
		},
	}
}

func TestToDOT(t *testing.T) {
	out := ToDOT(sampleGraph())

	for _, want := range []string{
		"digraph",
		"Rsvr",
		"Tank",
		"Pmp",
		"0,0!",
		"20,20!",
		"0.700 0.900 0.300",
		"white",
		"red",
		"bold",
		"back",
		"filled",
		"invtrapezium",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}

	if strings.Contains(out, "ghost") {
		t.Error("edge to unknown node should be skipped")
	}
	if n := strings.Count(out, "->"); n != 3 {
		t.Errorf("ToDOT() has %d edges, want 3 (parallel pipes kept)", n)
	}
}

func TestToDOT_NoFillWithoutColor(t *testing.T) {
	g := &annotate.Graph{Nodes: []annotate.Node{{ID: "A", Kind: "Junction", Label: "A"}}}
	out := ToDOT(g)
	if strings.Contains(out, "filled") {
		t.Error("uncolored node should not be filled")
	}
	if strings.Contains(out, "pos=") {
		t.Error("node without position should not be pinned")
	}
}

func TestLayoutNames(t *testing.T) {
	names := LayoutNames()
	if len(names) != len(Layouts) {
		t.Fatalf("LayoutNames() = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("LayoutNames() not sorted: %v", names)
		}
	}
	if !ValidLayout("neato") || ValidLayout("spring") {
		t.Error("ValidLayout() mismatch")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !strings.Contains(out, `width="100"`) {
		t.Errorf("normalizeViewBox() missing width: %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave SVG without viewBox untouched")
	}
}
