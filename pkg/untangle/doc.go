// Package untangle minimizes weighted edge crossings in layered graphs by
// reordering nodes within their layers.
//
// # Overview
//
// A layered graph is a sequence of node layers where every edge joins a node
// in layer i to a node in layer i+1. Drawing the layers as rows, two edges
// cross when their sources and targets appear in opposite left-to-right
// order. Each crossing costs the product of the two edge weights, and the
// goal is an ordering of every layer with a small total cost.
//
// # Basic Usage
//
// Build a [Graph] with [NewGraph], or go straight to an optimizer with [New]:
//
//	opt, err := untangle.New(
//	    [][]string{{"a", "b", "c"}, {"d", "e", "f"}},
//	    [][]untangle.Edge[string]{{
//	        {Source: "a", Target: "f", Weight: 1},
//	        {Source: "b", Target: "f", Weight: 1},
//	        {Source: "c", Target: "e", Weight: 1},
//	    }},
//	)
//	res, err := opt.Optimize(ctx, anneal.DefaultParams())
//	fmt.Println(res.Final, opt.Nodes())
//
// Node keys can be any comparable type and only need to be unique within
// their layer.
//
// # Counting
//
// [Graph.CountLayerCrossings] counts weighted inversions with a Fenwick tree
// in O(E log E). The search itself never recounts: for each layer it keeps a
// table of pairwise swap deltas derived from cumulative neighbor weights, and
// moves a running total by the delta of every swap it takes.
//
// # Search
//
// [Optimizer.Optimize] runs bidirectional sweeps (layers 0..L−1, then
// L−2..0). Each layer visit scans adjacent pairs left to right and decides
// per pair with the acceptance rule of package anneal: improvements are
// taken, neutral swaps are taken with a tie-break probability, and worsening
// swaps are taken with probability exp(−Δ/T). The temperature cools after
// every sweep and may reheat. The best orders seen are restored at the end.
// After a converged run, Optimize returns without a sweep until the orders
// change.
//
// [Optimizer.SwapNodes] runs fixed-temperature passes on a single layer,
// which is useful for tuning one side of a bipartite graph.
// [Optimizer.Cooldown] anneals a single layer along a cooling schedule.
//
// # Hierarchies
//
// [NewHierarchyOptimizer] restricts swaps to nodes that share their
// innermost group of a [Hierarchy]. Groups are contiguous runs of the
// initial order, nested from coarse to fine, and never change relative
// order.
//
// # Determinism
//
// Every optimizer owns a PCG random source seeded with [DefaultSeed] unless
// [WithSeed] or [WithRand] is given. The same graph, options, and seed
// always produce the same result.
//
// # Errors
//
// Malformed graphs and hierarchies fail at construction with a
// VALIDATION_ERROR wrapping one of the Err* sentinels. Out-of-range
// parameters fail with a USAGE_ERROR and leave all state untouched.
package untangle
