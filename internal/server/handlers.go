package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/yardbook/pkg/buildinfo"
	"github.com/matzehuels/yardbook/pkg/cache"
	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/observability"
	"github.com/matzehuels/yardbook/pkg/pipeline"
	"github.com/matzehuels/yardbook/pkg/placement"
)

type placeRequest struct {
	Document   json.RawMessage `json:"document"`
	Formats    []string        `json:"formats,omitempty"`
	Frames     bool            `json:"frames,omitempty"`
	Background string          `json:"background,omitempty"`
	Refresh    bool            `json:"refresh,omitempty"`

	// Overrides of the server configuration.
	Direction       *string `json:"direction,omitempty"`
	FirstUnit       *int    `json:"first_unit,omitempty"`
	LastUnit        *int    `json:"last_unit,omitempty"`
	ResetTransforms *bool   `json:"reset_transforms,omitempty"`
}

type placeResponse struct {
	RequestID     string            `json:"request_id"`
	DocumentHash  string            `json:"document_hash"`
	PlacementHash string            `json:"placement_hash"`
	Report        *placement.Report `json:"report"`
	Artifacts     map[string][]byte `json:"artifacts"`
	Cached        cachedInfo        `json:"cached"`
}

type cachedInfo struct {
	Place  bool `json:"place"`
	Render bool `json:"render"`
}

type measureRequest struct {
	Document json.RawMessage `json:"document"`
	IDs      []string        `json:"ids,omitempty"`
}

type measureResponse struct {
	RequestID    string                 `json:"request_id"`
	Measurements []pipeline.Measurement `json:"measurements"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) place(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFrom(ctx, s.logger)

	var req placeRequest
	if !s.decode(w, r, &req) {
		return
	}

	cfg := s.cfg
	if req.Direction != nil {
		cfg.Direction = *req.Direction
	}
	if req.FirstUnit != nil {
		cfg.FirstUnit = *req.FirstUnit
	}
	if req.LastUnit != nil {
		cfg.LastUnit = *req.LastUnit
	}
	if req.ResetTransforms != nil {
		cfg.ResetTransforms = *req.ResetTransforms
	}
	popts, err := cfg.PlacementOptions(logger)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.runner.Execute(ctx, pipeline.Options{
		Document:   req.Document,
		Placement:  popts,
		Formats:    req.Formats,
		Frames:     req.Frames,
		Background: req.Background,
		Refresh:    req.Refresh,
		Logger:     logger,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, placeResponse{
		RequestID:     RequestID(ctx),
		DocumentHash:  result.DocumentHash,
		PlacementHash: result.PlacementHash,
		Report:        result.Report,
		Artifacts:     result.Artifacts,
		Cached:        cachedInfo{Place: result.CacheInfo.PlaceHit, Render: result.CacheInfo.RenderHit},
	})
}

func (s *Server) measure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req measureRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Document) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "document is required"))
		return
	}

	doc, err := s.runner.Decode(ctx, req.Document)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ms, err := pipeline.Measure(doc, req.IDs...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, measureResponse{RequestID: RequestID(ctx), Measurements: ms})
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", MaxBodyBytes))
			return false
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := statusFor(err)
	observability.HTTP().OnError(ctx, r.Method, r.URL.Path, err)

	body := errorBody{Code: string(errors.GetCode(err)), RequestID: RequestID(ctx)}
	if status >= http.StatusInternalServerError {
		loggerFrom(ctx, s.logger).Error("request failed", "err", err)
		body.Error = http.StatusText(status)
	} else {
		body.Error = errors.UserMessage(err)
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(err, cache.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMeasurement, errors.ErrCodeDegenerateGeometry, errors.ErrCodeMissingSubtree:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
