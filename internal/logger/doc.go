// Package logger provides structured logging for callbridge using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("bridge")
//	log.Info("call started", logger.Fields(logger.FieldCallSID, sid))
package logger
