package httpclient

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type code int

func (c code) String() string { return fmt.Sprintf("code-%d", int(c)) }

func TestNewErrorNormalizesData(t *testing.T) {
	tests := []struct {
		name           string
		data           any
		wantStructured bool
		wantString     string
	}{
		{"nil becomes empty mapping", nil, true, ""},
		{"string map kept", map[string]any{"detail": "nope"}, true, ""},
		{"typed string map kept", map[string]int{"count": 1}, true, ""},
		{"string", "plain failure", false, "plain failure"},
		{"bytes", []byte("raw"), false, "raw"},
		{"error", errors.New("boom"), false, "boom"},
		{"stringer", code(7), false, "code-7"},
		{"slice", []any{"a", 1}, false, `["a",1]`},
		{"number", 42.5, false, "42.5"},
		{"int keyed map", map[int]string{1: "a"}, false, "map[1:a]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewError(400, tc.data, MetaJSONError)
			if e.Structured != tc.wantStructured {
				t.Fatalf("Structured = %v, want %v", e.Structured, tc.wantStructured)
			}
			if !tc.wantStructured && e.Data != tc.wantString {
				t.Errorf("Data = %#v, want %q", e.Data, tc.wantString)
			}
		})
	}
}

func TestNewErrorNilDataIsEmptyMap(t *testing.T) {
	e := NewError(500, nil, MetaPlainError)
	fields, ok := e.Fields()
	if !ok {
		t.Fatal("expected structured fields")
	}
	if len(fields) != 0 {
		t.Errorf("expected empty mapping, got %v", fields)
	}
}

func TestErrorDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{404, "Not Found"},
		{418, "I'm a teapot"},
		{504, "Gateway Timeout"},
		{599, "Unidentified error status code 599"},
	}
	for _, tc := range tests {
		e := NewError(tc.code, nil, "")
		if e.Description != tc.want {
			t.Errorf("Describe(%d) = %q, want %q", tc.code, e.Description, tc.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	e := NewError(404, nil, MetaJSONError)
	if got := e.Error(); got != "httpclient: 404 Not Found: "+MetaJSONError {
		t.Errorf("Error() = %q", got)
	}
	if got := NewError(500, nil, "").Error(); got != "httpclient: 500 Internal Server Error" {
		t.Errorf("Error() = %q", got)
	}
}

func TestTimeoutError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("wrapped: %w", NewTimeoutError("GET https://api.test/x/", cause))

	if !IsTimeout(err) {
		t.Fatal("expected IsTimeout")
	}
	if !IsStatus(err, 504) {
		t.Error("expected 504")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}

	e, ok := AsError(err)
	if !ok {
		t.Fatal("expected *Error")
	}
	if e.Meta != MetaSynthetic {
		t.Errorf("Meta = %q", e.Meta)
	}
	fields, _ := e.Fields()
	if fields["location"] != "GET https://api.test/x/" {
		t.Errorf("location = %v", fields["location"])
	}
	if e.Class().String() != "error" {
		t.Errorf("class = %s", e.Class())
	}
}

func TestErrorPredicatesOnForeignErrors(t *testing.T) {
	err := errors.New("other")
	if IsTimeout(err) || IsStatus(err, 500) {
		t.Error("predicates must be false for foreign errors")
	}
	if _, ok := AsError(err); ok {
		t.Error("AsError must fail for foreign errors")
	}
	if IsTimeout(NewError(504, nil, "")) {
		t.Error("a real 504 is not synthetic")
	}
}

func TestErrorDecode(t *testing.T) {
	var body struct {
		Detail string `json:"detail"`
	}
	e := NewError(422, map[string]any{"detail": "invalid"}, MetaJSONError)
	if err := e.Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Detail != "invalid" {
		t.Errorf("detail = %q", body.Detail)
	}

	var list []int
	if err := NewError(400, []int{1, 2}, "").Decode(&list); err != nil {
		t.Fatalf("Decode slice: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("list = %v", list)
	}

	if err := NewError(500, "not json", "").Decode(&body); err == nil {
		t.Error("expected decode error for plain text")
	} else if strings.Contains(err.Error(), "encode") {
		t.Errorf("unexpected error %v", err)
	}
}
