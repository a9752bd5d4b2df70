// Package transform turns arbitrary directed graphs into layered graphs the
// crossing optimizer accepts.
//
// # Overview
//
// The optimizer only handles edges between adjacent rows. Input graphs may
// contain cycles, lack row assignments, or have edges that skip rows.
// [Normalize] fixes all three, in order:
//
//   - [BreakCycles] reverses back edges found by depth-first search
//   - [AssignLayers] places each node by its longest path from a source
//   - [Subdivide] splits long edges with weighted dummy nodes
//
// A graph that already validates passes through unchanged, so hand-layered
// inputs keep their rows and initial orders.
//
// # Weights
//
// Reversed edges and every segment of a subdivided edge keep the original
// weight. A crossing between two subdivided chains therefore costs what a
// crossing between the original edges would.
//
// # Usage
//
//	stats := transform.Normalize(g) // modifies g in place
//	if stats.Changed() {
//	    log.Info("normalized", "reversed", stats.Reversed, "dummies", stats.Subdividers)
//	}
package transform
