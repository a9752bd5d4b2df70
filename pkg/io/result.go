package io

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

// Result is the JSON document describing one ordering run.
//
//	{
//	  "run_id": "5f0c...",
//	  "initial_crossings": 12,
//	  "crossings": 3,
//	  "sweeps": 41,
//	  "reason": "converged",
//	  "rows": {"0": ["app"], "1": ["auth", "cache"]},
//	  "graph": {"nodes": [...], "edges": [...]}
//	}
//
// Graph is optional; when present its node order matches Rows, which lets
// render commands redraw a result without the original input.
type Result struct {
	RunID            string
	InitialCrossings int64
	Crossings        int64
	Sweeps           int
	Reason           string
	Cached           bool
	Rows             map[int][]string
	Graph            *dag.DAG
}

type result struct {
	RunID            string              `json:"run_id"`
	InitialCrossings int64               `json:"initial_crossings"`
	Crossings        int64               `json:"crossings"`
	Sweeps           int                 `json:"sweeps"`
	Reason           string              `json:"reason"`
	Cached           bool                `json:"cached,omitempty"`
	Rows             map[string][]string `json:"rows"`
	Graph            *graph              `json:"graph,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	out := result{
		RunID:            r.RunID,
		InitialCrossings: r.InitialCrossings,
		Crossings:        r.Crossings,
		Sweeps:           r.Sweeps,
		Reason:           r.Reason,
		Cached:           r.Cached,
		Rows:             make(map[string][]string, len(r.Rows)),
	}
	for _, row := range slices.Sorted(maps.Keys(r.Rows)) {
		out.Rows[rowKey(row)] = r.Rows[row]
	}
	if r.Graph != nil {
		w := toWire(r.Graph)
		out.Graph = &w
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in result
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	rows := make(map[int][]string, len(in.Rows))
	for k, ids := range in.Rows {
		row, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("row key %q: %w", k, err)
		}
		rows[row] = ids
	}
	*r = Result{
		RunID:            in.RunID,
		InitialCrossings: in.InitialCrossings,
		Crossings:        in.Crossings,
		Sweeps:           in.Sweeps,
		Reason:           in.Reason,
		Cached:           in.Cached,
		Rows:             rows,
	}
	if in.Graph != nil {
		g, err := fromWire(*in.Graph)
		if err != nil {
			return err
		}
		r.Graph = g
	}
	return nil
}

// WriteResult encodes res as indented JSON.
func WriteResult(res Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// ExportResult writes res to a JSON file at path.
func ExportResult(res Result, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteResult(res, w) })
}

// ReadResult decodes a result document.
func ReadResult(r io.Reader) (Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return Result{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode result")
	}
	return res, nil
}

// ReadAny decodes either a graph or a result document and returns the
// graph with the result's row orders applied. A result without an embedded
// graph is an INVALID_INPUT error.
func ReadAny(r io.Reader) (*dag.DAG, error) {
	var shape struct {
		Nodes json.RawMessage `json:"nodes"`
		Rows  json.RawMessage `json:"rows"`
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	if shape.Rows == nil || shape.Nodes != nil {
		var data graph
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
		}
		return fromWire(data)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode result")
	}
	if res.Graph == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "result has no embedded graph")
	}
	for row, ids := range res.Rows {
		if err := res.Graph.SetRowOrder(row, ids); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "row %d", row)
		}
	}
	return res.Graph, nil
}

// ImportAny reads a graph or result file; see [ReadAny].
func ImportAny(path string) (*dag.DAG, error) {
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
	return ReadAny(f)
}
