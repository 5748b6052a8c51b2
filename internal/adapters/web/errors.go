package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"realtoros/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain errors to HTTP responses. A *DivergenceError
// means the store now holds a partial write; it is logged in full and
// surfaced with its own code so the client can tell the operator.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		writeError(w, r, verr.Error(), "VALIDATION", http.StatusBadRequest)
		return
	}
	if errors.Is(err, core.ErrSaleNotFound) || errors.Is(err, core.ErrTransactionNotFound) {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	var derr *core.DivergenceError
	if errors.As(err, &derr) {
		log.Printf("PARTIAL WRITE: %v", derr)
		writeError(w, r, derr.Error(), "PARTIAL_WRITE", http.StatusInternalServerError)
		return
	}
	log.Printf("request %s failed: %v", requestIDFromContext(r.Context()), err)
	writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
}

// decodeJSON decodes the request body into v. On failure it writes the error
// response and returns false: HTTP 413 when the body exceeds the middleware
// size limit, HTTP 400 for everything else.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
