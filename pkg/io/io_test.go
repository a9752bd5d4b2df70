package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/untangle/pkg/dag"
	apperrors "github.com/matzehuels/untangle/pkg/errors"
)

const sample = `{
  "nodes": [
    {"id": "app", "row": 0},
    {"id": "cache", "row": 1, "group": "backend"},
    {"id": "auth", "row": 1, "group": "backend", "meta": {"team": "id"}}
  ],
  "edges": [
    {"from": "app", "to": "auth", "weight": 3},
    {"from": "app", "to": "cache"}
  ]
}`

func TestReadJSON(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if got := g.RowOrder(1); !slices.Equal(got, []string{"cache", "auth"}) {
		t.Errorf("RowOrder(1) = %v, want file order [cache auth]", got)
	}
	weights := map[string]int64{}
	for _, e := range g.Edges() {
		weights[e.To] = e.Weight
	}
	if weights["auth"] != 3 || weights["cache"] != 1 {
		t.Errorf("weights = %v, want auth:3 cache:1", weights)
	}
	auth, _ := g.Node("auth")
	if auth.Group != "backend" || auth.Meta["team"] != "id" {
		t.Errorf("auth = %+v", *auth)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  apperrors.Code
		cause error
	}{
		{"malformed", `{"nodes": [`, apperrors.ErrCodeInvalidFormat, nil},
		{"duplicate", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`,
			apperrors.ErrCodeInvalidInput, dag.ErrDuplicateNodeID},
		{"unknown target", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`,
			apperrors.ErrCodeInvalidInput, dag.ErrUnknownTargetNode},
		{"negative weight", `{"nodes":[{"id":"a"},{"id":"b","row":1}],"edges":[{"from":"a","to":"b","weight":-2}]}`,
			apperrors.ErrCodeInvalidInput, dag.ErrInvalidWeight},
		{"unknown kind", `{"nodes":[{"id":"a","kind":"ghost"}],"edges":[]}`,
			apperrors.ErrCodeInvalidInput, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !apperrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("err = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestWriteJSON_PreservesOrderAndWeights(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetRowOrder(1, []string{"auth", "cache"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(WriteJSON()) error: %v", err)
	}

	if got := back.RowOrder(1); !slices.Equal(got, []string{"auth", "cache"}) {
		t.Errorf("RowOrder(1) = %v, want [auth cache]", got)
	}
	if got, want := dag.CountCurrentCrossings(back), dag.CountCurrentCrossings(g); got != want {
		t.Errorf("crossings = %d, want %d", got, want)
	}
}

func TestImportJSON_Missing(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExportImport(t *testing.T) {
	g, _ := ReadJSON(strings.NewReader(sample))
	path := filepath.Join(t.TempDir(), "g.json")

	if err := ExportJSON(g, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if back.NodeCount() != 3 || back.EdgeCount() != 2 {
		t.Errorf("got %d nodes, %d edges", back.NodeCount(), back.EdgeCount())
	}
}

func TestResult_JSON(t *testing.T) {
	g, _ := ReadJSON(strings.NewReader(sample))
	res := Result{
		RunID:            "run-1",
		InitialCrossings: 3,
		Crossings:        0,
		Sweeps:           2,
		Reason:           "zero_crossings",
		Rows:             map[int][]string{0: {"app"}, 1: {"auth", "cache"}},
		Graph:            g,
	}

	var buf bytes.Buffer
	if err := WriteResult(res, &buf); err != nil {
		t.Fatalf("WriteResult() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"1": [`) {
		t.Errorf("rows not keyed by string row index:\n%s", buf.String())
	}

	back, err := ReadResult(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadResult() error: %v", err)
	}
	if back.RunID != "run-1" || back.Reason != "zero_crossings" || back.Sweeps != 2 {
		t.Errorf("ReadResult() = %+v", back)
	}
	if !slices.Equal(back.Rows[1], []string{"auth", "cache"}) {
		t.Errorf("Rows[1] = %v", back.Rows[1])
	}
	if back.Graph == nil || back.Graph.NodeCount() != 3 {
		t.Error("embedded graph lost")
	}
}

func TestReadAny(t *testing.T) {
	g, _ := ReadJSON(strings.NewReader(sample))
	var buf bytes.Buffer
	_ = WriteResult(Result{
		Rows:  map[int][]string{0: {"app"}, 1: {"auth", "cache"}},
		Graph: g,
	}, &buf)

	t.Run("result", func(t *testing.T) {
		got, err := ReadAny(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadAny() error: %v", err)
		}
		if order := got.RowOrder(1); !slices.Equal(order, []string{"auth", "cache"}) {
			t.Errorf("RowOrder(1) = %v, want result order", order)
		}
	})

	t.Run("graph", func(t *testing.T) {
		got, err := ReadAny(strings.NewReader(sample))
		if err != nil {
			t.Fatalf("ReadAny() error: %v", err)
		}
		if got.NodeCount() != 3 {
			t.Errorf("NodeCount() = %d, want 3", got.NodeCount())
		}
	})

	t.Run("result without graph", func(t *testing.T) {
		_, err := ReadAny(strings.NewReader(`{"rows": {"0": ["a"]}}`))
		if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want INVALID_INPUT", err)
		}
	})
}
