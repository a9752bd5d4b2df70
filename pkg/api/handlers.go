package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/untangle/pkg/anneal"
	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
	uio "github.com/matzehuels/untangle/pkg/io"
	"github.com/matzehuels/untangle/pkg/ordering"
	"github.com/matzehuels/untangle/pkg/pipeline"
	"github.com/matzehuels/untangle/pkg/render"
)

type crossingsResponse struct {
	Crossings int64 `json:"crossings"`
	Nodes     int   `json:"nodes"`
	Edges     int   `json:"edges"`
	Rows      int   `json:"rows"`
}

type optimizeRequest struct {
	Graph          json.RawMessage `json:"graph"`
	Params         json.RawMessage `json:"params,omitempty"`
	Seed           *uint64         `json:"seed,omitempty"`
	TieBreak       *float64        `json:"tie_break,omitempty"`
	PassesPerLayer *int            `json:"passes_per_layer,omitempty"`
	GroupKey       string          `json:"group_key,omitempty"`
	Normalize      bool            `json:"normalize,omitempty"`
	Refresh        bool            `json:"refresh,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCrossings(w http.ResponseWriter, r *http.Request) {
	g, err := readLayered(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	total, _, err := ordering.Count(g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, crossingsResponse{
		Crossings: total,
		Nodes:     g.NodeCount(),
		Edges:     g.EdgeCount(),
		Rows:      g.RowCount(),
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req optimizeRequest
	if err := decodeStrict(body, &req); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Graph) == 0 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "request has no graph"))
		return
	}
	g, err := uio.ReadJSON(bytes.NewReader(req.Graph))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.defaults
	opts.GroupKey = req.GroupKey
	opts.Normalize = req.Normalize
	opts.Refresh = req.Refresh
	opts.Formats = nil
	opts.Logger = s.logger.With("request", middleware.GetReqID(r.Context()))
	if opts.Params == (anneal.Params{}) {
		opts.Params = anneal.DefaultParams()
	}
	if len(req.Params) > 0 {
		if err := decodeStrict(req.Params, &opts.Params); err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode params"))
			return
		}
	}
	if req.Seed != nil {
		opts.Seed = req.Seed
	}
	if req.TieBreak != nil {
		opts.TieBreak = req.TieBreak
	}
	if req.PassesPerLayer != nil {
		opts.PassesPerLayer = *req.PassesPerLayer
	}

	res, err := s.runner.Run(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Document())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(render.FormatDOT)
	}
	f, err := render.ParseFormat(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := readLayered(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	data, err := render.Render(r.Context(), g, f, render.Options{
		Detailed:    q.Get("detailed") == "true",
		ShowWeights: q.Get("weights") != "false",
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readLayered decodes a graph or result document and requires it to be
// layered already.
func readLayered(r *http.Request) (*dag.DAG, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}
	g, err := uio.ReadAny(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeValidation, err, "graph is not layered")
	}
	return g, nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "read request body")
	}
	return body, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := errorResponse{Code: string(errs.ErrCodeInternal), Message: "internal error"}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
		body = errorResponse{Code: string(errs.GetCode(err)), Message: errs.UserMessage(err)}
	case errs.IsClientError(err):
		status = http.StatusBadRequest
		body = errorResponse{Code: string(errs.GetCode(err)), Message: errs.UserMessage(err)}
	case pipeline.IsCanceled(err):
		status = http.StatusServiceUnavailable
		body = errorResponse{Code: string(errs.ErrCodeTimeout), Message: "request canceled or timed out"}
	default:
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeStrict decodes data into v, keeping fields of v that data omits
// and rejecting fields v does not have.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
