package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/stemma/pkg/buildinfo"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type renderResponse struct {
	TextHash   string            `json:"text_hash"`
	LayoutHash string            `json:"layout_hash"`
	Artifacts  map[string][]byte `json:"artifacts"`
}

type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// layout handles /v1/layout. The response is the layout JSON whatever
// formats the request names.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, pipeline.FormatJSON, result)
}

// render handles /v1/render. A single format is returned as is; several
// formats come back as a JSON object with base64 artifacts.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(result.Artifacts) == 1 {
		for format := range result.Artifacts {
			writeArtifact(w, format, result)
		}
		return
	}
	setCacheHeader(w, result)
	writeJSON(w, http.StatusOK, renderResponse{
		TextHash:   result.TextHash,
		LayoutHash: result.LayoutHash,
		Artifacts:  result.Artifacts,
	})
}

// readOptions decodes and validates the request options.
func (s *Server) readOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error
	if r.Method == http.MethodPost {
		opts, err = decodeBody(w, r, s.cfg.MaxBodyBytes)
	} else {
		opts, err = optionsFromQuery(r.URL.Query())
	}
	if err != nil {
		return opts, err
	}

	if opts.LeafSize == 0 {
		opts.LeafSize = s.chord.LeafSize
	}
	if opts.Tension == 0 {
		opts.Tension = s.chord.Tension
	}
	if opts.ReferenceCategory == "" {
		opts.ReferenceCategory = s.chord.ReferenceCategory
	}
	opts.Logger = s.logger.With("request_id", requestIDFrom(r.Context()))

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return opts, errTooLarge{limit: tooLarge.Limit}
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return opts, nil
}

func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Source:            q.Get("source"),
		Text:              q.Get("text"),
		PassageSource:     q.Get("passage"),
		Style:             q.Get("style"),
		ReferenceCategory: q.Get("reference_category"),
		Title:             q.Get("title"),
	}
	if f := q.Get("formats"); f != "" {
		opts.Formats = strings.Split(f, ",")
	} else if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}

	var err error
	parseBool := func(name string, dst *bool) {
		if v := q.Get(name); v != "" && err == nil {
			if *dst, err = strconv.ParseBool(v); err != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
			}
		}
	}
	parseFloat := func(name string, dst *float64) {
		if v := q.Get(name); v != "" && err == nil {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
			}
		}
	}
	parseBool("refresh", &opts.Refresh)
	parseBool("skip_auto_layout", &opts.SkipAutoLayout)
	parseBool("interactive", &opts.Interactive)
	parseFloat("leaf_size", &opts.LeafSize)
	parseFloat("tension", &opts.Tension)
	parseFloat("scale", &opts.Scale)
	return opts, err
}

type errTooLarge struct{ limit int64 }

func (e errTooLarge) Error() string {
	return "request body exceeds " + strconv.FormatInt(e.limit, 10) + " bytes"
}

func setCacheHeader(w http.ResponseWriter, result *pipeline.Result) {
	if result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit {
		w.Header().Set(cacheHeader, "hit")
	} else {
		w.Header().Set(cacheHeader, "miss")
	}
}

func writeArtifact(w http.ResponseWriter, format string, result *pipeline.Result) {
	setCacheHeader(w, result)
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", strconv.Quote(result.LayoutHash+"-"+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}

	msg := errors.UserMessage(err)
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil && status != http.StatusInternalServerError {
		msg += ": " + errors.UserMessage(e.Cause)
	}
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:      code,
		Message:   msg,
		RequestID: requestIDFrom(r.Context()),
	}})
}

// statusFor maps an error to an HTTP status and the code reported to the
// client. Fetch failures report the status of their cause when it is
// more specific than a bad gateway.
func statusFor(err error) (int, errors.Code) {
	var tooLarge errTooLarge
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput
	}

	code := errors.GetCode(err)
	if code == errors.ErrCodeFetch {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Cause != nil {
			switch inner := errors.GetCode(e.Cause); inner {
			case errors.ErrCodeNotFound:
				return http.StatusNotFound, inner
			case errors.ErrCodeTimeout:
				return http.StatusGatewayTimeout, inner
			case errors.ErrCodeRateLimited:
				return http.StatusTooManyRequests, inner
			case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath:
				return http.StatusBadRequest, inner
			}
		}
		return http.StatusBadGateway, code
	}

	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest, code
	case errors.ErrCodeParse, errors.ErrCodeEmptyGraph, errors.ErrCodeMalformedGeometry:
		return http.StatusUnprocessableEntity, code
	case errors.ErrCodeNotFound:
		return http.StatusNotFound, code
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests, code
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway, code
	case errors.ErrCodeSuperseded:
		return http.StatusConflict, code
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, code
	case "":
		return http.StatusInternalServerError, errors.ErrCodeInternal
	}
	return http.StatusInternalServerError, code
}
