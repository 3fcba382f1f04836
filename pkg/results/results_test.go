package results

import (
	"strings"
	"testing"

	"github.com/matzehuels/hydrograph/pkg/errors"
)

const sample = `{
  "time": [0, 3600, 7200, 9000],
  "node": {"head": {"J1": [10, 11, 12, 13], "R1": [100, 100, 100, 100]}},
  "link": {"flowrate": {"P1": [0.5, -0.25, 0.1, 0]}}
}`

func TestReadJSON(t *testing.T) {
	r, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(r.Times) != 4 {
		t.Fatalf("Times = %v", r.Times)
	}
	if !r.HasNode(Head) || !r.HasLink(FlowRate) {
		t.Error("expected head and flowrate to be present")
	}
	if r.HasNode(Pressure) {
		t.Error("pressure should be absent")
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"time": [0,`},
		{"no times", `{"time": []}`},
		{"decreasing", `{"time": [3600, 0]}`},
		{"short series", `{"time": [0, 3600], "node": {"head": {"J1": [1]}}}`},
		{"long link series", `{"time": [0], "link": {"flowrate": {"P1": [1, 2]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			if !errors.Is(err, errors.ErrCodeInvalidResults) {
				t.Errorf("code = %v, want INVALID_RESULTS (err=%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestIndexAndValues(t *testing.T) {
	r, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	idx, err := r.Index(3600)
	if err != nil {
		t.Fatalf("Index(3600): %v", err)
	}
	if idx != 1 {
		t.Errorf("Index(3600) = %d, want 1", idx)
	}

	if v, ok := r.NodeValue(Head, "J1", idx); !ok || v != 11 {
		t.Errorf("NodeValue = %v, %v; want 11, true", v, ok)
	}
	if v, ok := r.LinkValue(FlowRate, "P1", idx); !ok || v != -0.25 {
		t.Errorf("LinkValue = %v, %v; want -0.25, true", v, ok)
	}
	if _, ok := r.NodeValue(Head, "missing", idx); ok {
		t.Error("NodeValue for missing node should be false")
	}
	if _, ok := r.NodeValue(Head, "J1", 9); ok {
		t.Error("NodeValue out of range should be false")
	}

	_, err = r.Index(1234)
	if !errors.Is(err, errors.ErrCodeTimeStepNotFound) {
		t.Errorf("Index(1234) code = %v, want TIME_STEP_NOT_FOUND", errors.GetCode(err))
	}
}

func TestHours(t *testing.T) {
	r, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	got := r.Hours()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Hours() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Hours()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
