package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
// Data is encoded before the header is written; an unencodable value yields a
// 500 error envelope.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response","status":"error"}` + "\n"))
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError writes the {"status":"error","error":msg} envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// writeBuildError maps catalog errors onto HTTP statuses.
func writeBuildError(w http.ResponseWriter, err error) {
	var (
		unknown   *catalog.UnknownToolError
		missing   *catalog.MissingRequiredParameterError
		malformed *catalog.MalformedJSONBodyError
		badType   *catalog.InvalidParameterTypeError
	)
	switch {
	case errors.As(err, &unknown):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &missing), errors.As(err, &malformed), errors.As(err, &badType):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		// InvalidToolDefinitionError here means a catalog bug, not a bad request.
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
