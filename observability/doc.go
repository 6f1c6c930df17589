// Package observability wires OpenTelemetry tracing and metrics into the
// restkit client.
//
// Every dispatched call opens a client span named "http.request" carrying the
// method, URL, call id and final status code. Resource operations are counted
// by resource and operation name.
//
//	tel, err := observability.Setup(ctx, observability.Config{Enabled: true})
//	defer tel.Shutdown(ctx)
//
//	client, err := httpclient.New(cfg, httpclient.WithMetrics(tel.Metrics))
//
// With export disabled the global no-op providers stay installed and spans
// cost nothing.
package observability
