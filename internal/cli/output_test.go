package cli

import (
	"reflect"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "nets/net1.json", "nets/net1"},
		{"out/graph.svg", "net1.json", "out/graph"},
		{"out/graph.pdf", "net1.json", "out/graph"},
		{"out/graph", "net1.json", "out/graph"},
		{"out/graph.v2", "net1.json", "out/graph.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	got := artifactPaths("out/net1", []string{"svg", "document", "legend"})
	want := map[string]string{
		"svg":      "out/net1.svg",
		"document": "out/net1_w_cb.pdf",
		"legend":   "out/net1_cb.png",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("artifactPaths = %v, want %v", got, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg, PNG,,pdf", []string{"svg", "png", "pdf"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   []int
		want string
	}{
		{nil, "none on whole hours"},
		{[]int{1}, "1"},
		{[]int{1, 2, 3, 5, 7, 8}, "1-3, 5, 7-8"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.in); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
