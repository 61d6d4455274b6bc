// Package logger provides structured logging built on zerolog.
//
// It supports JSON and console output, level configuration from config
// or environment, and component-tagged child loggers.
package logger
