package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/logger"
)

// multipartOverhead is added to the upload limit for form boundaries and fields.
const multipartOverhead = 1 << 20

type analyzeTextRequest struct {
	Text        string `json:"text" validate:"required"`
	JobPosition string `json:"job_position" validate:"omitempty,max=100"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handlePositions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"positions": s.engine.Positions()})
}

func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.failure(w, r, err)
			return
		}
		s.failure(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.failure(w, r, err)
		return
	}

	s.analyze(w, r, req.Text, req.JobPosition, "text")
}

func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.failure(w, r, err)
			return
		}
		s.failure(w, r, &ErrValidation{Field: "file", Message: "expected multipart form data"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.failure(w, r, &ErrValidation{Field: "file", Message: "file is required"})
		return
	}
	defer file.Close()

	data, err := document.ReadAll(file, s.cfg.MaxUploadBytes)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	text, err := document.ExtractText(header.Filename, data)
	if err != nil {
		if !errors.Is(err, document.ErrUnsupportedFormat) {
			err = &ErrValidation{Field: "file", Message: fmt.Sprintf("could not read document: %v", err)}
		}
		s.failure(w, r, err)
		return
	}

	s.analyze(w, r, text, strings.TrimSpace(r.FormValue("job_position")), header.Filename)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, text, position, source string) {
	log := logger.WithFields(s.logger, logger.RequestFields(RequestID(r.Context()), source, position)...)

	result, err := s.engine.Analyze(text, position)
	if err != nil {
		log.Info("analysis rejected", zap.Error(err))
		s.failure(w, r, err)
		return
	}

	log.Info("analysis completed",
		zap.Int("score", result.Score),
		zap.Int("skills", len(result.Skills)),
		zap.Int("experiences", len(result.Experiences)),
	)
	s.jsonResponse(w, http.StatusOK, result)
}
