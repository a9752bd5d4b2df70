// Package pkg holds the untangle libraries for weighted crossing
// minimization in layered graphs.
//
// # Overview
//
// A layered graph places every node on a row and draws edges between
// adjacent rows. Two edges between the same pair of rows cross when their
// endpoints appear in opposite orders; a crossing costs the product of the
// two edge weights. untangle reorders rows to bring that cost down with
// simulated annealing over adjacent swaps, optionally keeping nested groups
// of nodes together.
//
// The data flow:
//
//	graph.json
//	     ↓
//	[io] (decode) → [dag/transform] (break cycles, layer, subdivide)
//	     ↓
//	[ordering] (build engine input, groups) → [untangle] (anneal)
//	     ↓
//	[pipeline] (cache, run IDs) → [render] (DOT, SVG) / [io] (result JSON)
//
// # Quick Start
//
//	g, _ := io.ImportJSON("graph.json")
//	transform.Normalize(g)
//	orders, res, _ := ordering.Annealing{}.Order(ctx, g)
//	_ = ordering.Apply(g, orders)
//	fmt.Println(res.Initial, "->", res.Final)
//
// # Main Packages
//
// ## Engine
//
// [untangle] - Generic layered graph, incremental crossing counter and the
// annealing optimizer, flat or over a group hierarchy.
//
// [anneal] - Temperature schedule with reheats and the Metropolis rule.
//
// ## Graphs
//
// [dag] - Row-based directed graph with metadata, validation and crossing
// counts.
//
// [dag/transform] - Cycle breaking, longest-path layering and edge
// subdivision. [transform.Normalize] runs all three as needed.
//
// [dag/perm] - Permutation helpers used by the exhaustive reference orderer.
//
// [ordering] - Row orderers over a [dag.DAG]: annealing, single-row tuning
// and exhaustive search for small graphs.
//
// ## Infrastructure
//
// [pipeline] - Normalize, order and render with result caching; shared by
// the CLI and the HTTP API.
//
// [cache] - File, Redis and null result caches.
//
// [config] - untangle.toml loading.
//
// [api] - chi-based HTTP API.
//
// [render] - DOT and SVG output via Graphviz.
//
// [io] - JSON graph and result documents.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook interfaces for metrics and tracing.
//
// [untangle]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/untangle
// [anneal]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/anneal
// [dag]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/dag/transform
// [dag/perm]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/dag/perm
// [ordering]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/ordering
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/api
// [render]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/observability
package pkg
