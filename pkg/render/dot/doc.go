// Package dot draws an ordered layered graph as a Graphviz diagram.
//
// [ToDOT] emits one rank per row and chains each row's nodes with invisible
// edges, so Graphviz keeps the left-to-right order chosen by the optimizer
// instead of running its own crossing reduction. [RenderSVG] lays the DOT
// out in process with github.com/goccy/go-graphviz.
//
//	src := dot.ToDOT(g, dot.Options{ShowWeights: true})
//	svg, err := dot.RenderSVG(ctx, src)
package dot
