package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/calder/vouch/internal/adapters/extraction"
	"github.com/calder/vouch/internal/domain/patterns"
)

// maxBodyBytes bounds uploaded extraction documents and corrections.
const maxBodyBytes = 16 << 20

// handleValidate runs one extraction result through the engine and
// responds with the verdict. The request carries either a raw JSON body
// or a multipart upload with a "file" part.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := extractionBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	table, err := extraction.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Validate(table)
	if err != nil {
		s.log.Error().Err(err).Str("document_id", table.DocumentID).Msg("Validation failed")
		writeError(w, http.StatusInternalServerError, "validation failed")
		return
	}

	writeJSON(w, http.StatusOK, result.Verdict)
}

// extractionBody returns the request's extraction JSON: the "file" part
// of a multipart upload, otherwise the raw request body.
func extractionBody(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, errors.New("parse multipart form: " + err.Error())
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New(`multipart upload needs a "file" part`)
		}
		return file, nil
	}
	return http.MaxBytesReader(w, r.Body, maxBodyBytes), nil
}

type healthResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	CatalogVersion string `json:"catalog_version"`
	CatalogSize    int    `json:"catalog_size"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	catalog := s.engine.Catalog()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		Uptime:         time.Since(s.started).Round(time.Second).String(),
		CatalogVersion: catalog.Version(),
		CatalogSize:    catalog.Len(),
	})
}

// handlePatterns renders the active catalog in its stored wire form.
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	export := s.engine.Catalog().Export()
	writeJSON(w, http.StatusOK, export)
}

// handleFeedback records one manual correction through the feedback
// hook and responds with the processing outcome.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var correction patterns.Correction
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&correction); err != nil {
		writeError(w, http.StatusBadRequest, "decode correction: "+err.Error())
		return
	}
	if correction.Incorrect == "" || correction.Correct == "" {
		writeError(w, http.StatusBadRequest, "correction needs incorrect_value and correct_value")
		return
	}

	outcome, err := s.feedback.ProcessCorrection(correction)
	if err != nil {
		s.log.Error().Err(err).Str("document_id", correction.DocumentID).Msg("Correction failed")
		writeError(w, http.StatusInternalServerError, "record correction")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// handleOutput serves one generated artifact from the output directory.
// Only bare file names resolve; anything path-like is rejected.
func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusBadRequest, "invalid artifact name")
		return
	}

	path := filepath.Join(s.engine.OutputDir(), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}
	http.ServeFile(w, r, path)
}
