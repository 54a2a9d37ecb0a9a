package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mmkal/workert/internal/playground"
)

// maxSourceBytes caps how much guest source one request may submit.
const maxSourceBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, playground.FailureBody(msg))
}

// runRequest is the JSON body shape of POST /.
type runRequest struct {
	Code string `json:"code"`
}

// handleRun accepts guest source as either a raw text body or a JSON object
// with a code field, detected by whether the trimmed body starts with "{".
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	// An over-limit body is rejected outright; truncating it would check and
	// run a different program than the one submitted.
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, http.StatusBadRequest, fmt.Sprintf("Request body exceeds %d bytes", maxSourceBytes))
			return
		}
		writeFailure(w, http.StatusBadRequest, "reading request body: "+err.Error())
		return
	}

	source := string(raw)
	if strings.HasPrefix(strings.TrimSpace(source), "{") {
		var req runRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		source = req.Code
	}

	s.execute(w, r, source)
}

// handleGet serves the link-based form (?code=...) and falls back to the
// informational page when no code is supplied.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexHTML))
		return
	}
	s.execute(w, r, code)
}

// execute runs the pipeline for one source text. The empty-input check comes
// first: no collaborator is invoked for a blank submission.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, source string) {
	if strings.TrimSpace(source) == "" {
		writeFailure(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	status, body := s.play.Run(r.Context(), source)
	writeJSON(w, status, body)
}
