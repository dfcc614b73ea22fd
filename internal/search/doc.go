// Package search implements the 3D grid model and the paced best-first
// search that runs over it.
//
// A Grid is a dense block of nodes with spherical wall cavities and one
// Start and one End cell. An Engine searches it one suspension point at a
// time: callers invoke Step, wait for the Pause it returns, and call Step
// again. Between steps the node costs and states are safe to read.
//
// Moves follow 26-connectivity and are weighted 10 (straight), 14 (2D
// diagonal) and 17 (3D diagonal). The same metric is the heuristic.
package search
