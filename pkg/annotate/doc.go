// Package annotate decorates a water network with everything the renderer
// needs: pinned positions, labels, fill colors and edge styles.
//
// # Positions
//
// Node coordinates are rescaled into a [0, Scale] box per axis and emitted
// as Graphviz pinned positions ("x,y!"). Pinned positions are honored by the
// neato and fdp layouts and ignored by dot.
//
// # Labels
//
//   - Reservoirs: "Rsvr\n<name>"
//   - Tanks: "Tank\n<name>"
//   - Junctions with demand: "<name>\nd = <demand at the time step>"
//   - Pumps: "Pmp\n<name>" (red, bold)
//   - Pipes with a check valve: "CV\n<name>"
//   - Valves: "<valve type>\n<name>"
//
// With simulation results, node labels gain the head ("h = ...") and edge
// labels the flow rate ("q = ..."); edges with negative flow point backwards.
//
// # Colors
//
// Nodes are filled by elevation (reservoirs by their head), or by simulated
// head when [ColorByHead] is selected. The quantity is normalized over the
// colored nodes and mapped through a [colormap.Map].
package annotate
