package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/feedbackhub/feedbackhub/internal/common"
	"github.com/feedbackhub/feedbackhub/internal/logging"
)

// errorBody is the fixed shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSONResponse writes data as a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes a JSON error response.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, errorBody{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// ParseJSONBody parses the request body into the given struct.
func ParseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps the service error taxonomy to HTTP responses.
// Validation failures carry their reason; authentication failures stay
// deliberately uninformative; store failures are logged and surfaced as an
// opaque internal error.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		ErrorResponse(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, common.ErrorAlreadyExists):
		ErrorResponse(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, common.ErrorNotFound):
		ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
