// Package logger provides structured logging for lecturekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying pipeline fields such as the stage name
// and the content hash of the video being processed.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("summarizer")
//	log.Info("chunk summarized", logger.Fields("index", 2, "chunks", 5))
package logger
