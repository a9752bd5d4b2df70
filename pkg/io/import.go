package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

// ReadJSON decodes a JSON graph from r into a DAG.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "row": 0}, {"id": "b", "row": 1}],
//	  "edges": [{"from": "a", "to": "b", "weight": 3}]
//	}
//
// Nodes keep their file order within each row; that order is the initial
// layer order. A missing or zero edge weight means 1.
//
// Malformed JSON returns INVALID_FORMAT. Duplicate IDs, unknown endpoints
// and negative weights return INVALID_INPUT wrapping the [dag] sentinel.
// ReadJSON does not check rows; see [dag.DAG.Validate].
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}
	return fromWire(data)
}

// ImportJSON reads the JSON graph file at path.
func ImportJSON(path string) (*dag.DAG, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
