// Package logger provides structured logging for restkit using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("resource")
//	log.Debug("dispatch", logger.Fields(logger.FieldMethod, "GET"))
package logger
