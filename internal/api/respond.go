package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"luxcheck/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}

// readBody reads a size-limited request body
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.CodeTooLarge, "request body exceeds the configured limit")
		}
		return nil, errors.Wrap(errors.WithCode(errors.CodeInvalidInput, err), "failed to read request body")
	}
	if len(data) == 0 {
		return nil, errors.InvalidInput("request body is empty")
	}
	return data, nil
}
