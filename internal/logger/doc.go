// Package logger provides structured logging on top of the Zap logging library.
// The logger travels inside a context.Context instead of living in a package global,
// so every component logs through whatever logger its caller injected.
// Entries can be written to the console and to a size-rotated log file at the same time.
package logger
