package httpclient

import (
	"net/http"
	"testing"
)

func response(code int, contentType, body string) *Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{StatusCode: code, Header: h, Body: []byte(body)}
}

func TestResolveSuccess(t *testing.T) {
	tests := []struct {
		name      string
		resp      *Response
		wantEmpty bool
		wantText  string
		wantKey   string
	}{
		{"no content", response(204, "application/json", ""), true, "", ""},
		{"no content ignores type", response(204, "text/html", "<p>x</p>"), true, "", ""},
		{"json", response(200, "application/json", `{"id":1}`), false, "", "id"},
		{"json with params", response(201, "Application/JSON; charset=utf-8", `{"ok":true}`), false, "", "ok"},
		{"plain text", response(200, "text/plain", "pong"), false, "pong", ""},
		{"no content type", response(200, "", "raw"), false, "raw", ""},
		{"informational", response(101, "", ""), true, "", ""},
		{"redirect", response(302, "text/html", "moved"), true, "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Resolve(tc.resp)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.IsEmpty() != tc.wantEmpty {
				t.Errorf("IsEmpty = %v, want %v", p.IsEmpty(), tc.wantEmpty)
			}
			if tc.wantText != "" {
				if p.Text != tc.wantText {
					t.Errorf("Text = %q", p.Text)
				}
				if p.Response != tc.resp {
					t.Error("expected the original response to be kept")
				}
			}
			if tc.wantKey != "" {
				m, ok := p.Data.(map[string]any)
				if !ok {
					t.Fatalf("Data = %T", p.Data)
				}
				if _, ok := m[tc.wantKey]; !ok {
					t.Errorf("missing key %q in %v", tc.wantKey, m)
				}
			}
		})
	}
}

func TestResolveJSONDecode(t *testing.T) {
	p, err := Resolve(response(200, "application/json", `{"name":"widget","size":3}`))
	if err != nil {
		t.Fatal(err)
	}
	var w struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	}
	if err := p.Decode(&w); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w.Name != "widget" || w.Size != 3 {
		t.Errorf("decoded %+v", w)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name           string
		resp           *Response
		wantCode       int
		wantMeta       string
		wantStructured bool
		wantData       string
	}{
		{"success with broken json", response(200, "application/json", "{oops"), 200, MetaSuccessParse, false, "{oops"},
		{"json error", response(404, "application/json", `{"detail":"missing"}`), 404, MetaJSONError, true, ""},
		{"json null error", response(404, "application/json", "null"), 404, MetaJSONError, false, "null"},
		{"json error array", response(400, "application/json", `["a","b"]`), 400, MetaJSONError, false, `["a","b"]`},
		{"broken json error", response(500, "application/json", "<html>"), 500, MetaJSONErrorParse, false, "<html>"},
		{"plain error", response(503, "text/plain", "down"), 503, MetaPlainError, false, "down"},
		{"untyped error", response(401, "", ""), 401, MetaPlainError, false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Resolve(tc.resp)
			if p != nil {
				t.Fatalf("expected no payload, got %+v", p)
			}
			e, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %v", err)
			}
			if e.StatusCode != tc.wantCode {
				t.Errorf("StatusCode = %d", e.StatusCode)
			}
			if e.Meta != tc.wantMeta {
				t.Errorf("Meta = %q", e.Meta)
			}
			if e.Structured != tc.wantStructured {
				t.Errorf("Structured = %v", e.Structured)
			}
			if !tc.wantStructured && e.Data != tc.wantData {
				t.Errorf("Data = %#v, want %q", e.Data, tc.wantData)
			}
			if e.Synthetic() {
				t.Error("resolver errors are never synthetic")
			}
		})
	}
}

func TestResolveJSONErrorData(t *testing.T) {
	_, err := Resolve(response(404, "application/json", `{"detail":"missing"}`))
	e, _ := AsError(err)
	fields, ok := e.Fields()
	if !ok || fields["detail"] != "missing" {
		t.Errorf("fields = %v", fields)
	}
}

func TestPayloadDecodeText(t *testing.T) {
	p, err := Resolve(response(200, "text/plain", `{"n":1}`))
	if err != nil {
		t.Fatal(err)
	}
	var v struct{ N int }
	if err := p.Decode(&v); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.N != 1 {
		t.Errorf("N = %d", v.N)
	}
}

func TestResponseContentTypes(t *testing.T) {
	r := response(200, "Application/JSON ; Charset=UTF-8", "")
	got := r.ContentTypes()
	if len(got) != 2 || got[0] != "application/json" || got[1] != "charset=utf-8" {
		t.Errorf("ContentTypes = %v", got)
	}
	if response(200, "", "").ContentTypes() != nil {
		t.Error("expected nil without a content type")
	}
}
