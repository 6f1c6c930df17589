package endpoint

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// Param is a single query parameter. A nil Value, including a nil pointer,
// is omitted from the query; other pointers are sent as what they point to.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of query parameters.
type Params []Param

// FromMap builds Params from m in sorted key order.
func FromMap(m map[string]any) Params {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make(Params, 0, len(keys))
	for _, k := range keys {
		params = append(params, Param{Key: k, Value: m[k]})
	}
	return params
}

// FromStrings builds Params from string values in sorted key order.
func FromStrings(m map[string]string) Params {
	if len(m) == 0 {
		return nil
	}
	anyMap := make(map[string]any, len(m))
	for k, v := range m {
		anyMap[k] = v
	}
	return FromMap(anyMap)
}

// Add returns p with key=value appended.
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode joins the non-nil parameters as key=value pairs separated by '&'.
func (p Params) Encode() string {
	parts := make([]string, 0, len(p))
	for _, param := range p {
		value, ok := indirect(param.Value)
		if !ok {
			continue
		}
		parts = append(parts, url.QueryEscape(param.Key)+"="+url.QueryEscape(formatValue(value)))
	}
	return strings.Join(parts, "&")
}

// indirect follows pointers and interfaces down to a concrete value. It
// reports false when it reaches nil.
func indirect(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// API is an immutable description of where a REST API lives.
type API struct {
	baseURL string
	prefix  *string
	dev     bool
}

// New creates an API. A nil prefix means routes hang directly off baseURL.
// In dev mode resources forward mock descriptors to the client.
func New(baseURL string, prefix *string, dev bool) *API {
	var p *string
	if prefix != nil {
		v := *prefix
		p = &v
	}
	return &API{baseURL: baseURL, prefix: p, dev: dev}
}

// IsInDevMode reports whether mocks are honored.
func (a *API) IsInDevMode() bool {
	return a.dev
}

// BaseURL returns the configured base URL.
func (a *API) BaseURL() string {
	return a.baseURL
}

// Prefix returns the path prefix and whether one is set.
func (a *API) Prefix() (string, bool) {
	if a.prefix == nil {
		return "", false
	}
	return *a.prefix, true
}

// URL builds baseURL + "/prefix/" (or "/") + route, with a trailing slash
// when appendSlash is set. A non-empty params list adds "?" and the encoded
// query, even when every value is nil.
func (a *API) URL(route string, params Params, appendSlash bool) string {
	var b strings.Builder
	b.WriteString(a.baseURL)
	if a.prefix != nil {
		b.WriteString("/")
		b.WriteString(*a.prefix)
		b.WriteString("/")
	} else {
		b.WriteString("/")
	}
	b.WriteString(route)
	if appendSlash {
		b.WriteString("/")
	}

	if len(params) > 0 {
		b.WriteString("?")
		b.WriteString(params.Encode())
	}
	return b.String()
}

// Route is URL with a trailing slash.
func (a *API) Route(route string, params Params) string {
	return a.URL(route, params, true)
}
