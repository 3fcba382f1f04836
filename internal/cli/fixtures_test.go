package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const testNetwork = `{
  "name": "Tiny",
  "patterns": [{"name": "1", "multipliers": [1.0, 1.5]}],
  "options": {"time": {"pattern_timestep": 3600}, "hydraulic": {"pattern": "1"}},
  "nodes": [
    {"name": "R1", "node_type": "Reservoir", "base_head": 100, "coordinates": [0, 0]},
    {"name": "J1", "node_type": "Junction", "elevation": 10, "coordinates": [10, 0],
     "demand_timeseries_list": [{"base_val": 0.002}]},
    {"name": "J2", "node_type": "Junction", "elevation": 30, "coordinates": [10, 10]}
  ],
  "links": [
    {"name": "PU1", "link_type": "Pump", "start_node_name": "R1", "end_node_name": "J1"},
    {"name": "P1", "link_type": "Pipe", "start_node_name": "J1", "end_node_name": "J2", "check_valve": true}
  ]
}`

const testResults = `{
  "time": [0, 3600],
  "node": {"head": {"R1": [100, 100], "J1": [90, 88], "J2": [85, 80]}},
  "link": {"flowrate": {"PU1": [0.002, 0.003], "P1": [0.001, -0.001]}}
}`

// writeFixtures writes the test network and results into a temp dir.
func writeFixtures(t *testing.T) (dir, netPath, resPath string) {
	t.Helper()
	dir = t.TempDir()
	netPath = filepath.Join(dir, "tiny.json")
	resPath = filepath.Join(dir, "tiny_results.json")
	if err := os.WriteFile(netPath, []byte(testNetwork), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(resPath, []byte(testResults), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, netPath, resPath
}
