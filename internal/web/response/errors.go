package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
)

// ErrorObject is a single JSON:API error object
type ErrorObject struct {
	Status string                 `json:"status"`
	Code   string                 `json:"code,omitempty"`
	Title  string                 `json:"title"`
	Detail string                 `json:"detail,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

// ErrorDocument is the top-level JSON:API error document
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// RenderError renders err with the code derived from the status
func RenderError(w http.ResponseWriter, statusCode int, err error) {
	RenderErrorWithCode(w, statusCode, err, "")
}

// RenderErrorWithCode renders an error with a specific error code
func RenderErrorWithCode(w http.ResponseWriter, statusCode int, err error, code string) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && len(httpErr.Details) > 0 {
		renderErrorObject(w, statusCode, httpErr.Code, err, httpErr.Details)
		return
	}

	// Generate error code from status if not provided
	if code == "" {
		code = errorCodeFromStatus(statusCode)
	}

	renderErrorObject(w, statusCode, code, err, nil)
}

func renderErrorObject(w http.ResponseWriter, statusCode int, code string, err error, meta map[string]interface{}) {
	obj := ErrorObject{
		Status: strconv.Itoa(statusCode),
		Code:   code,
		Title:  http.StatusText(statusCode),
		Meta:   meta,
	}
	if err != nil {
		obj.Detail = err.Error()
	}

	w.Header().Set("Content-Type", JSONAPIMediaType)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(&ErrorDocument{Errors: []ErrorObject{obj}})
}

// RenderBadRequest renders a 400 Bad Request error
func RenderBadRequest(w http.ResponseWriter, message string) {
	RenderError(w, http.StatusBadRequest, fmt.Errorf("%s", message))
}

// RenderNotFound renders a 404 Not Found error
func RenderNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RenderError(w, http.StatusNotFound, fmt.Errorf("%s", message))
}

// RenderNotAcceptable renders a 406 Not Acceptable error
func RenderNotAcceptable(w http.ResponseWriter) {
	RenderError(w, http.StatusNotAcceptable, fmt.Errorf("accepted media types must include %s", JSONAPIMediaType))
}

// RenderInternalError renders a 500 Internal Server Error
func RenderInternalError(w http.ResponseWriter, err error) {
	if err == nil {
		err = fmt.Errorf("internal server error")
	}
	RenderErrorWithCode(w, http.StatusInternalServerError, err, CodeForError(err))
}

// StatusForError maps an error to the HTTP status it is rendered with.
// Document build failures are server-side configuration problems.
func StatusForError(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return http.StatusInternalServerError
}

// CodeForError returns the machine readable code for known error kinds
func CodeForError(err error) string {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, jsonapi.ErrMissingIdentifier):
		return "missing_identifier"
	case errors.Is(err, jsonapi.ErrIdentifierPropertyNotFound):
		return "identifier_property_not_found"
	case errors.Is(err, jsonapi.ErrAttributeLookupMismatch):
		return "attribute_lookup_mismatch"
	case errors.Is(err, jsonapi.ErrNamingStrategyUnavailable):
		return "naming_strategy_unavailable"
	case errors.Is(err, jsonapi.ErrMetadataUnavailable):
		return "metadata_unavailable"
	default:
		return errorCodeFromStatus(StatusForError(err))
	}
}

// errorCodeFromStatus maps HTTP status codes to error codes
func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusNotAcceptable:
		return "not_acceptable"
	case http.StatusPreconditionFailed:
		return "precondition_failed"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusInternalServerError:
		return "internal_error"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "error"
	}
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    map[string]interface{}
	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       errorCodeFromStatus(statusCode),
	}
}

// WithCode sets a custom error code
func (e *HTTPError) WithCode(code string) *HTTPError {
	e.Code = code
	return e
}

// WithDetails adds details to the error
func (e *HTTPError) WithDetails(details map[string]interface{}) *HTTPError {
	e.Details = details
	return e
}

// Wrap records the underlying cause
func (e *HTTPError) Wrap(err error) *HTTPError {
	e.Err = err
	return e
}

// Render renders the HTTP error as a response
func (e *HTTPError) Render(w http.ResponseWriter) {
	RenderErrorWithCode(w, e.StatusCode, e, e.Code)
}
