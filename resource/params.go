package resource

import (
	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
)

// ListParams are the arguments of List.
type ListParams struct {
	Filters endpoint.Params
	Headers map[string]string
	Token   *string
	Mock    *httpclient.Mock
}

// CreateParams are the arguments of Create. A nil Data sends no body.
type CreateParams struct {
	Data    any
	Headers map[string]string
	Files   []httpclient.FileField
	Token   *string
	Mock    *httpclient.Mock
}

// DetailParams are the arguments of Detail and Remove.
type DetailParams struct {
	ID      any
	Headers map[string]string
	Token   *string
	Mock    *httpclient.Mock
}

// WriteParams are the arguments of Update and Replace. A nil Data sends {}.
type WriteParams struct {
	ID      any
	Data    any
	Headers map[string]string
	Files   []httpclient.FileField
	Token   *string
	Mock    *httpclient.Mock
}

// CustomParams are the arguments of a custom method. ID is required by
// detail customizations and ignored otherwise. Filters apply only to
// GET and DELETE; Data only to POST, PUT and PATCH, where nil sends {}.
type CustomParams struct {
	ID            any
	Filters       endpoint.Params
	Data          any
	Headers       map[string]string
	Token         *string
	Files         []httpclient.FileField
	URLPartParams map[string]string
	Mock          *httpclient.Mock
}

// Token returns a pointer to token, for the Token fields of call params.
func Token(token string) *string {
	return &token
}
