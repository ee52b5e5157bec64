package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// RespondError writes err using the taxonomy status. Validation errors carry
// their own message; not-found, unauthorized and forbidden use notFoundMsg /
// generic texts; everything else gets fallback so internals never leak.
func RespondError(w http.ResponseWriter, err error, notFoundMsg, fallback string) {
	status := Status(err)
	msg := fallback
	switch status {
	case http.StatusBadRequest:
		msg = err.Error()
	case http.StatusNotFound:
		msg = notFoundMsg
	case http.StatusUnauthorized:
		msg = "Invalid credentials"
	case http.StatusForbidden:
		msg = "Invalid token"
	case http.StatusServiceUnavailable:
		msg = "Service unavailable"
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error(fallback, zap.Error(err))
	}
	Respond(w, status, ErrorResponse{Error: msg})
}

// DecodeJSON decodes the request body into dst, reporting malformed bodies
// as validation errors.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return Validation("malformed JSON at offset %d", syntaxErr.Offset)
		}
		return Validation("invalid request body")
	}
	return nil
}
