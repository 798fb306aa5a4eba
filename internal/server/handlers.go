package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/ontoloviz/ontoloviz/pkg/buildinfo"
	"github.com/ontoloviz/ontoloviz/pkg/counts"
	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/obo"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/assemble"
	"github.com/ontoloviz/ontoloviz/pkg/pipeline"
)

// BuildResponse is the body of a successful build.
type BuildResponse struct {
	ID        string            `json:"id"`
	Branches  int               `json:"branches"`
	Nodes     int               `json:"nodes"`
	CacheHit  bool              `json:"cache_hit"`
	Summary   assemble.Summary  `json:"summary"`
	Counts    counts.Stats      `json:"counts"`
	Removed   []string          `json:"removed,omitempty"`
	Trace     json.RawMessage   `json:"trace,omitempty"`
	Artifacts map[string]string `json:"artifacts,omitempty"` // png is base64 encoded
	Duration  int64             `json:"duration_ms"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) ontologies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, obo.Entries())
}

func (s *Server) build(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{Config: s.Config}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if opts.OntologyURL != "" && !s.AllowCustomOntologies {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "custom ontology URLs are disabled on this server"))
		return
	}
	opts.Logger = s.Logger.With("request_id", requestIDFrom(r.Context()))

	ctx := r.Context()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	res, err := s.Runner.Execute(ctx, opts)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "build timed out")
		}
		s.writeError(w, r, err)
		return
	}

	resp := BuildResponse{
		ID:       res.ID,
		Branches: res.Stats.Branches,
		Nodes:    res.Stats.Nodes,
		CacheHit: res.CacheHit,
		Summary:  res.Summary,
		Counts:   res.Counts,
		Removed:  res.Removed,
		Duration: res.Stats.Total.Milliseconds(),
	}
	for format, data := range res.Artifacts {
		switch format {
		case pipeline.FormatJSON:
			resp.Trace = data
		case pipeline.FormatPNG:
			resp.setArtifact(format, base64.StdEncoding.EncodeToString(data))
		default:
			resp.setArtifact(format, string(data))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *BuildResponse) setArtifact(format, data string) {
	if b.Artifacts == nil {
		b.Artifacts = make(map[string]string)
	}
	b.Artifacts[format] = data
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status. Internal errors are masked.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	resp := ErrorResponse{
		Code:      string(errors.GetCode(err)),
		Message:   errors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("build failed", "request_id", resp.RequestID, "err", err)
		if resp.Code == "" || resp.Code == string(errors.ErrCodeInternal) {
			resp.Code, resp.Message = string(errors.ErrCodeInternal), "internal server error"
		}
	}
	writeJSON(w, status, resp)
}
