// Package results holds the time-indexed simulation results that can be
// overlaid on a network rendering.
//
// Results are produced by an external hydraulic solver and exported as JSON:
//
//	{
//	  "time": [0, 3600, 7200],
//	  "node": {"head": {"J1": [102.1, 101.7, 101.9]}},
//	  "link": {"flowrate": {"P1": [0.012, -0.003, 0.010]}}
//	}
//
// Every series must have one value per entry of "time".
package results

import (
	"encoding/json"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/hydrograph/pkg/errors"
)

// Well-known quantities.
const (
	Head     = "head"
	Pressure = "pressure"
	Demand   = "demand"
	FlowRate = "flowrate"
	Velocity = "velocity"
)

// Table maps element names to a series aligned with Results.Times.
type Table map[string][]float64

// Results is a simulation result set.
type Results struct {
	Times []int64
	Node  map[string]Table
	Link  map[string]Table
}

type document struct {
	Time []int64          `json:"time"`
	Node map[string]Table `json:"node"`
	Link map[string]Table `json:"link"`
}

// ReadJSON decodes a results document from r. It does not close r.
func ReadJSON(r io.Reader) (*Results, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidResults, err, "decode results")
	}
	res := &Results{Times: doc.Time, Node: doc.Node, Link: doc.Link}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// ImportJSON reads the results document at path.
func ImportJSON(path string) (*Results, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "results %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Validate checks that times are strictly increasing and that every series
// matches the number of time steps.
func (r *Results) Validate() error {
	if len(r.Times) == 0 {
		return errors.New(errors.ErrCodeInvalidResults, "results have no time steps")
	}
	for i := 1; i < len(r.Times); i++ {
		if r.Times[i] <= r.Times[i-1] {
			return errors.New(errors.ErrCodeInvalidResults, "times not increasing at index %d", i)
		}
	}
	check := func(kind string, tables map[string]Table) error {
		for q, tbl := range tables {
			for name, series := range tbl {
				if len(series) != len(r.Times) {
					return errors.New(errors.ErrCodeInvalidResults,
						"%s %s of %s has %d values, want %d", kind, q, name, len(series), len(r.Times))
				}
			}
		}
		return nil
	}
	if err := check("node", r.Node); err != nil {
		return err
	}
	return check("link", r.Link)
}

// Index returns the position of the given time in seconds.
func (r *Results) Index(seconds int64) (int, error) {
	i, ok := slices.BinarySearch(r.Times, seconds)
	if !ok {
		return 0, errors.New(errors.ErrCodeTimeStepNotFound,
			"no results at %ds (available: %s)", seconds, r.describeTimes())
	}
	return i, nil
}

// NodeValue returns a node quantity at a time index.
func (r *Results) NodeValue(quantity, name string, idx int) (float64, bool) {
	return lookup(r.Node, quantity, name, idx)
}

// LinkValue returns a link quantity at a time index.
func (r *Results) LinkValue(quantity, name string, idx int) (float64, bool) {
	return lookup(r.Link, quantity, name, idx)
}

// HasNode reports whether the node quantity is present.
func (r *Results) HasNode(quantity string) bool {
	_, ok := r.Node[quantity]
	return ok
}

// HasLink reports whether the link quantity is present.
func (r *Results) HasLink(quantity string) bool {
	_, ok := r.Link[quantity]
	return ok
}

// Hours returns the time steps as 1-based integer hours for steps that fall
// on whole hours.
func (r *Results) Hours() []int {
	var hours []int
	for _, s := range r.Times {
		if s%3600 == 0 {
			hours = append(hours, int(s/3600)+1)
		}
	}
	return hours
}

func lookup(tables map[string]Table, quantity, name string, idx int) (float64, bool) {
	series, ok := tables[quantity][name]
	if !ok || idx < 0 || idx >= len(series) {
		return 0, false
	}
	return series[idx], true
}

func (r *Results) describeTimes() string {
	const limit = 6
	parts := make([]string, 0, limit+1)
	for i, s := range r.Times {
		if i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, strconv.FormatInt(s, 10))
	}
	return strings.Join(parts, ", ")
}
