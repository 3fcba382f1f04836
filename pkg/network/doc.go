// Package network holds the in-memory water-distribution network model that
// hydrograph decorates and renders.
//
// The model is not built here from EPANET input files. It is decoded from the
// JSON document a hydraulic modeling library exports for an already-parsed
// network (nodes, links, patterns and options), see [ReadJSON]:
//
//	{
//	  "name": "Net1",
//	  "options": {"time": {"pattern_timestep": 3600}, "hydraulic": {"pattern": "1"}},
//	  "patterns": [{"name": "1", "multipliers": [1.0, 1.2, 1.4]}],
//	  "nodes": [
//	    {"name": "9",  "node_type": "Reservoir", "base_head": 243.84, "coordinates": [20, 70]},
//	    {"name": "10", "node_type": "Junction", "elevation": 216.4, "coordinates": [30, 70],
//	     "demand_timeseries_list": [{"base_val": 0.0, "pattern_name": "1"}]},
//	    {"name": "2",  "node_type": "Tank", "elevation": 259.08, "coordinates": [50, 90]}
//	  ],
//	  "links": [
//	    {"name": "9", "link_type": "Pump", "start_node_name": "9", "end_node_name": "10"},
//	    {"name": "110", "link_type": "Pipe", "start_node_name": "2", "end_node_name": "10",
//	     "check_valve": false, "initial_status": "Open"}
//	  ]
//	}
//
// Node and link order is preserved from the document so that rendering is
// deterministic.
//
// # Time steps
//
// Demand and head patterns are indexed by zero-based pattern step and wrap
// around when the step exceeds the pattern length, matching how the
// simulator repeats patterns over an extended period.
package network
