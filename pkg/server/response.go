package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/cypherview/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorInfo `json:"error"`
}

type errorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorBody{Error: errorInfo{
		Code:      code,
		Message:   message,
		RequestID: w.Header().Get(RequestIDHeader),
	}})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch {
	case errors.IsClientError(code):
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a size-limited JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
