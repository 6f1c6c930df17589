package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/validation"
)

// Customization declares one non-CRUD endpoint of a resource.
type Customization struct {
	// Method is the HTTP method. Unrecognized methods are sent as GET.
	Method string `yaml:"method" mapstructure:"method" json:"method"`
	// URLPart is the path segment after {name}/ or {name}/{id}/.
	URLPart string `yaml:"url_part" mapstructure:"url_part" json:"url_part"`
	// URLPartFunc computes the segment from CustomParams.URLPartParams.
	// Exactly one of URLPart and URLPartFunc must be set.
	URLPartFunc func(params map[string]string) string `yaml:"-" mapstructure:"-" json:"-"`
	// IsDetail makes the method require an ID.
	IsDetail bool `yaml:"is_detail" mapstructure:"is_detail" json:"is_detail"`
}

// fixedMethods are reserved; customizations may not reuse them.
var fixedMethods = []string{"list", "create", "detail", "update", "replace", "remove"}

func (c Customization) validate(name string) error {
	v := validation.New()
	v.Required("name", name)
	for _, fixed := range fixedMethods {
		if strings.EqualFold(name, fixed) {
			v.AddError("name", fmt.Sprintf("%q collides with a fixed method", name))
		}
	}
	v.Check(c.URLPart != "" || c.URLPartFunc != nil, "url_part", "url_part or url_part_func is required")
	v.Check(c.URLPart == "" || c.URLPartFunc == nil, "url_part", "url_part and url_part_func are mutually exclusive")
	return v.Err()
}

func (c Customization) urlPart(params map[string]string) string {
	if c.URLPartFunc != nil {
		if params == nil {
			params = map[string]string{}
		}
		return c.URLPartFunc(params)
	}
	return c.URLPart
}

// CustomMethod is a customization bound to its resource.
type CustomMethod struct {
	name     string
	method   string
	entry    Customization
	resource *Resource
}

func newCustomMethod(r *Resource, name string, entry Customization) *CustomMethod {
	return &CustomMethod{
		name:     name,
		method:   normalizeMethod(entry.Method),
		entry:    entry,
		resource: r,
	}
}

// Name returns the declared name.
func (m *CustomMethod) Name() string { return m.name }

// Method returns the HTTP method the call is dispatched with.
func (m *CustomMethod) Method() string { return m.method }

// IsDetail reports whether the method requires an ID.
func (m *CustomMethod) IsDetail() bool { return m.entry.IsDetail }

// Route returns the path below the API root for p, without filters.
func (m *CustomMethod) Route(p CustomParams) (string, error) {
	part := m.entry.urlPart(p.URLPartParams)
	if !m.entry.IsDetail {
		return m.resource.name + "/" + part, nil
	}
	id, err := formatID(p.ID)
	if err != nil {
		return "", fmt.Errorf("resource: %s.%s: %w", m.resource.name, m.name, err)
	}
	return m.resource.name + "/" + id + "/" + part, nil
}

// Call dispatches the method. The request goes to the unfiltered URL for
// POST, PUT and PATCH and to the filtered URL otherwise.
func (m *CustomMethod) Call(ctx context.Context, p CustomParams) (*httpclient.Payload, error) {
	r := m.resource
	route, err := m.Route(p)
	if err != nil {
		return nil, err
	}

	plainURL := r.api.Route(route, nil)
	filteredURL := r.api.Route(route, p.Filters)

	headers, err := r.headers(ctx, p.Headers, p.Token)
	if err != nil {
		return nil, err
	}

	req := httpclient.Request{
		Method:  m.method,
		Headers: headers,
		Mock:    r.gateMock(p.Mock),
	}
	switch m.method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		req.URL = plainURL
		req.Data = orEmpty(p.Data)
		req.Files = p.Files
	default:
		req.URL = filteredURL
	}
	return r.dispatch(ctx, m.name, req)
}

// normalizeMethod upper-cases m and maps anything outside the five
// supported methods to GET.
func normalizeMethod(m string) string {
	switch upper := strings.ToUpper(strings.TrimSpace(m)); upper {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return upper
	default:
		return http.MethodGet
	}
}

func orEmpty(data any) any {
	if data == nil {
		return map[string]any{}
	}
	return data
}

var errMissingID = errors.New("id is required")

func formatID(id any) (string, error) {
	var s string
	switch v := id.(type) {
	case nil:
		return "", errMissingID
	case string:
		s = v
	case *string:
		if v == nil {
			return "", errMissingID
		}
		s = *v
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", errMissingID
	}
	return s, nil
}

func sortedNames(m map[string]*CustomMethod) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
