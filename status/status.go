package status

import (
	"fmt"
	"net/http"
)

// Class is the outcome class of an HTTP status code.
type Class int

const (
	// Unhandled covers codes that are neither successful nor errors (1xx, 3xx, out of range).
	Unhandled Class = iota
	// Successful covers 2xx codes.
	Successful
	// Failed covers 4xx and 5xx codes.
	Failed
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Successful:
		return "successful"
	case Failed:
		return "error"
	default:
		return "unhandled"
	}
}

// Status codes the resolver treats specially.
const (
	NoContent      = http.StatusNoContent
	GatewayTimeout = http.StatusGatewayTimeout
)

// IsSuccessful reports whether code is in the 2xx range.
func IsSuccessful(code int) bool {
	return code >= 200 && code < 300
}

// IsError reports whether code is in the 4xx or 5xx range.
func IsError(code int) bool {
	return code >= 400 && code < 600
}

// Classify maps a status code to its Class.
func Classify(code int) Class {
	switch {
	case IsSuccessful(code):
		return Successful
	case IsError(code):
		return Failed
	default:
		return Unhandled
	}
}

// Text returns the registered description for code, or "" when the code
// is not in the table.
func Text(code int) string {
	return http.StatusText(code)
}

// Describe returns the description for code, synthesizing one for codes
// missing from the table. The result is never empty.
func Describe(code int) string {
	if text := Text(code); text != "" {
		return text
	}
	return fmt.Sprintf("Unidentified error status code %d", code)
}
