// Package security holds the TLS settings shared by the restkit HTTP
// transport and the mock server.
//
//	cfg := security.TLSConfig{CAFile: "/etc/restkit/ca.pem"}
//	clientTLS, err := cfg.Build()
//
//	srv := security.TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"}
//	serverTLS, err := srv.BuildServer()
package security
