package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hyperifyio/goclippings/internal/app"
)

// skippedHeader carries the skip list out of band, separate from the
// document bytes: a comma-separated list of the original URLs that failed.
const skippedHeader = "X-Clippings-Skipped"

type compileRequest struct {
	URLs []string `json:"urls"`
	Quiz bool     `json:"quiz"`
	To   string   `json:"to,omitempty"`
}

type emailResponse struct {
	Sent     bool     `json:"sent"`
	Filename string   `json:"filename"`
	Skipped  []string `json:"skipped"`
}

// handleCompile builds the document and streams it back as a download. The
// response is written only once the full byte stream exists; a failed compile
// never produces partial bytes.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCompileRequest(w, r)
	if !ok {
		return
	}

	res, err := s.app.Compile(r.Context(), req.URLs, req.Quiz)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set(skippedHeader, strings.Join(res.Skipped, ","))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

// handleEmail compiles and mails the document instead of returning it.
func (s *Server) handleEmail(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCompileRequest(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.To) == "" {
		s.writeError(w, http.StatusBadRequest, "missing recipient")
		return
	}

	res, err := s.app.CompileAndMail(r.Context(), req.URLs, req.Quiz, req.To)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(emailResponse{
		Sent:     true,
		Filename: res.Filename,
		Skipped:  res.Skipped,
	})
}

func (s *Server) decodeCompileRequest(w http.ResponseWriter, r *http.Request) (compileRequest, bool) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if len(req.URLs) == 0 {
		s.writeError(w, http.StatusBadRequest, "urls is required")
		return req, false
	}
	return req, true
}

// writeCompileError maps the compile error taxonomy onto status codes:
// a batch with zero usable articles is the caller's problem (422), anything
// else is ours (500).
func (s *Server) writeCompileError(w http.ResponseWriter, err error) {
	if errors.Is(err, app.ErrNoArticles) {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("compile failed")
	s.writeError(w, http.StatusInternalServerError, "document composition failed")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
