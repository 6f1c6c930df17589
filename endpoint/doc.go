// Package endpoint composes request URLs for a REST API from a base URL, an
// optional path prefix and query parameters.
//
//	prefix := "v1"
//	api := endpoint.New("https://api.test", &prefix, false)
//	api.Route("widgets", nil)                         // https://api.test/v1/widgets/
//	api.URL("widgets", endpoint.Params{{"page", 2}}, false) // https://api.test/v1/widgets?page=2
//
// Query parameters keep their order. A parameter whose value is nil is left
// out; empty strings, zero and false are kept.
package endpoint
