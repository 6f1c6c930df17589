package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/kbukum/restkit/status"
)

// Meta values attached to errors raised by the resolver.
const (
	MetaSuccessParse   = "Server returned success, but an error occurred while parsing JSON response"
	MetaJSONError      = "Server returned a JSON error response"
	MetaJSONErrorParse = "Server returned a JSON error response, but an error occurred while parsing it"
	MetaPlainError     = "Server returned a PLAIN error response"
	MetaMockError      = "Server returned a JSON error"
	MetaSynthetic      = "Server did not respond, the data from this error is synthetic"
)

// Error is the structured failure raised for every non-success and
// transport-failure outcome. It is never returned as a payload.
type Error struct {
	// StatusCode is the HTTP status code (504 for synthetic transport failures).
	StatusCode int
	// Description is the status description; never empty.
	Description string
	// Structured is true when Data is a string-keyed mapping.
	Structured bool
	// Data is the mapping as received, or the string form of anything else.
	Data any
	// Meta describes where the error came from.
	Meta string

	synthetic bool
	cause     error
}

// NewError builds an Error. A nil data defaults to an empty mapping.
func NewError(statusCode int, data any, meta string) *Error {
	normalized, structured := normalizeData(data)
	return &Error{
		StatusCode:  statusCode,
		Description: status.Describe(statusCode),
		Structured:  structured,
		Data:        normalized,
		Meta:        meta,
	}
}

// NewTimeoutError builds the synthetic gateway-timeout error raised when the
// transport produced no response. location identifies the originating call.
func NewTimeoutError(location string, cause error) *Error {
	e := NewError(status.GatewayTimeout, map[string]any{"location": location}, MetaSynthetic)
	e.synthetic = true
	e.cause = cause
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Meta != "" {
		return fmt.Sprintf("httpclient: %d %s: %s", e.StatusCode, e.Description, e.Meta)
	}
	return fmt.Sprintf("httpclient: %d %s", e.StatusCode, e.Description)
}

// Unwrap returns the transport error behind a synthetic error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Synthetic reports whether the error was produced locally because the
// server did not respond.
func (e *Error) Synthetic() bool {
	return e.synthetic
}

// Class returns the status class of the error's code.
func (e *Error) Class() status.Class {
	return status.Classify(e.StatusCode)
}

// Fields returns Data as a map when the error is structured.
func (e *Error) Fields() (map[string]any, bool) {
	if !e.Structured {
		return nil, false
	}
	m, ok := e.Data.(map[string]any)
	return m, ok
}

// Decode decodes Data into v through a JSON round trip.
func (e *Error) Decode(v any) error {
	if s, ok := e.Data.(string); ok {
		return json.Unmarshal([]byte(s), v)
	}
	b, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("httpclient: encode error data: %w", err)
	}
	return json.Unmarshal(b, v)
}

// normalizeData keeps string-keyed maps as-is and coerces everything else
// to its string form.
func normalizeData(data any) (any, bool) {
	switch v := data.(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		return v, true
	case string:
		return v, false
	case []byte:
		return string(v), false
	case error:
		return v.Error(), false
	case fmt.Stringer:
		return v.String(), false
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return data, true
		}
	case reflect.Slice, reflect.Array:
		if b, err := json.Marshal(data); err == nil {
			return string(b), false
		}
	}
	return fmt.Sprint(data), false
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsTimeout reports whether err is the synthetic transport-failure error.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.synthetic
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, code int) bool {
	e, ok := AsError(err)
	return ok && e.StatusCode == code
}
