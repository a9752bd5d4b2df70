package render

import (
	"context"

	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/render/dot"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// ValidFormats lists every supported format.
var ValidFormats = []Format{FormatDOT, FormatSVG}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "text/vnd.graphviz; charset=utf-8"
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range ValidFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errs.New(errs.ErrCodeUsage, "invalid format %q (must be one of: dot, svg)", s)
}

// Options configures rendering.
type Options = dot.Options

// Render draws g in its current row order.
func Render(ctx context.Context, g *dag.DAG, f Format, opts Options) ([]byte, error) {
	src := dot.ToDOT(g, opts)
	switch f {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return dot.RenderSVG(ctx, src)
	}
	return nil, errs.New(errs.ErrCodeUsage, "invalid format %q", f)
}
