// Package render turns an ordered layered graph into an output format.
//
// [Render] dispatches on [Format]; the DOT and SVG output itself lives in
// the [dot] subpackage.
package render
