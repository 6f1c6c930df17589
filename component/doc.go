// Package component defines the lifecycle interface shared by the HTTP
// client and the mock server, and a Registry that starts them in order and
// stops them in reverse.
package component
