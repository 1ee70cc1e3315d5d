// Package http provides the RoundTrippers wrapped around every outgoing request:
// User-Agent injection and debug-level request/response dumps.
package http
