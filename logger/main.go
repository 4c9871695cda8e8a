// Package logger re-exports the interfaces.Logger contract at the
// package root so call sites can write logger.Logger instead of
// reaching into the interfaces subpackage, and provides a no-op
// implementation for components (tests, engines with no logger
// configured) that don't want to wire a real driver.
package logger

import "stream_cache/logger/interfaces"

type Logger = interfaces.Logger
type Factory = interfaces.LoggerFactory

type noop struct{}

func (noop) Debug(string)            {}
func (noop) Info(string)             {}
func (noop) Warn(string)             {}
func (noop) Error(string, error)     {}
func (noop) Fatal(string, error)     {}

// Noop returns a Logger that discards everything.
func Noop() Logger { return noop{} }
