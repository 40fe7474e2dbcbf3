package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// maxMultipartMemory is the in-memory threshold before form parts spill to
// temp files. The request body itself is capped separately.
const maxMultipartMemory = 10 << 20

// availableEndpoints is advertised on 404 responses.
var availableEndpoints = []string{"/health", "/analyze", "/models/status"}

type healthResponse struct {
	Status           string              `json:"status"`
	Version          string              `json:"version"`
	Message          string              `json:"message"`
	Timestamp        time.Time           `json:"timestamp"`
	ModelsLoaded     map[string]bool     `json:"models_loaded"`
	SupportedFormats map[string][]string `json:"supported_formats"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.pipeline.Status(r.Context())

	loaded := make(map[string]bool, len(status))
	for m, st := range status {
		loaded[string(m)] = st.Available
	}

	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		Version:      model.Version,
		Message:      "Emotion recognition service is running",
		Timestamp:    time.Now().UTC(),
		ModelsLoaded: loaded,
		SupportedFormats: map[string][]string{
			"audio": extensionList(model.AudioExtensions),
			"image": extensionList(model.ImageExtensions),
			"text":  extensionList(model.TextExtensions),
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
				"error":    "File too large",
				"max_size": megabytes(s.cfg.MaxUploadBytes),
			})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid form data"})
		return
	}

	req := &model.AnalysisRequest{Text: r.FormValue("text")}

	if data, name, ok := s.formFile(r, "audio", model.AudioExtensions); ok {
		req.AudioData = data
		req.AudioName = name
	}
	if data, name, ok := s.formFile(r, "image", model.ImageExtensions); ok {
		req.ImageData = data
		req.ImageName = name
	}

	report, err := s.pipeline.Analyze(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrNoInput) {
			s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": model.ErrNoInput.Error()})
			return
		}
		s.logger.Error("analysis failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "analysis failed"})
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleModelsStatus(w http.ResponseWriter, r *http.Request) {
	status := s.pipeline.Status(r.Context())

	resp := make(map[string]any, len(status)+1)
	for m, st := range status {
		state := "ready"
		if !st.Available {
			state = "unavailable"
		}
		resp[string(m)+"_analyzer"] = map[string]any{
			"loaded":     st.Available,
			"model_name": st.Name,
			"status":     state,
		}
	}
	resp["emotion_combiner"] = map[string]any{
		"strategy": "weighted_average",
		"status":   "ready",
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, map[string]any{
		"error":               "Endpoint not found",
		"available_endpoints": availableEndpoints,
	})
}

// formFile reads one uploaded file, enforcing the extension whitelist for
// its field. Files with disallowed extensions are ignored with a log line
// rather than failing the request.
func (s *Server) formFile(r *http.Request, field string, allowed map[string]bool) ([]byte, string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		s.logger.Warn("ignoring upload with unsupported extension",
			"field", field, "filename", header.Filename)
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Warn("reading upload failed", "field", field, "error", err)
		return nil, "", false
	}
	return data, header.Filename, true
}

// extensionList returns the whitelist as sorted dot-free names for the
// health payload.
func extensionList(allowed map[string]bool) []string {
	out := make([]string, 0, len(allowed))
	for ext := range allowed {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(out)
	return out
}

func megabytes(n int64) string {
	return fmt.Sprintf("%dMB", n>>20)
}
