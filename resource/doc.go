// Package resource generates REST clients for named collections.
//
// A Resource exposes six fixed operations against {name}/ and {name}/{id}/:
//
//	List    GET    /{name}/?filters
//	Create  POST   /{name}/
//	Detail  GET    /{name}/{id}/
//	Update  PATCH  /{name}/{id}/
//	Replace PUT    /{name}/{id}/
//	Remove  DELETE /{name}/{id}/
//
// Further endpoints are declared as customizations and resolved once, at
// construction, into CustomMethods:
//
//	widgets, err := resource.New("widgets", api, resource.WithCustomization(
//	    map[string]resource.Customization{
//	        "activate": {Method: "POST", URLPart: "activate", IsDetail: true},
//	        "search":   {Method: "GET", URLPart: "search"},
//	    }))
//	p, err := widgets.Call(ctx, "activate", resource.CustomParams{ID: 42})
//
// Every call applies the auth header policy and forwards its mock only when
// the API is in dev mode.
package resource
