package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/oshokin/subdivx-grabber/internal/logger"
	"github.com/oshokin/subdivx-grabber/internal/utils"
)

// LogTransport dumps every request and response through the logger found in the request context.
// Dumps are produced only when that logger emits debug entries.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxDumpLength is the maximum length of a logged request or response dump.
	maxDumpLength int
}

// ErrNilRequest indicates that the HTTP request is nil.
var ErrNilRequest = errors.New("request is nil")

// NewLogTransport creates a LogTransport.
// A non-positive maxDumpLength defaults to DefaultMaxDumpLength.
func NewLogTransport(next http.RoundTripper, maxDumpLength int) http.RoundTripper {
	if maxDumpLength <= 0 {
		maxDumpLength = DefaultMaxDumpLength
	}

	return &LogTransport{
		next:          next,
		maxDumpLength: maxDumpLength,
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx := req.Context()

	if !logger.IsDebugLevel(ctx) {
		return t.next.RoundTrip(req)
	}

	requestDump := t.dumpRequest(req)
	startTime := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, req.URL.String(), err)

		return nil, err
	}

	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.String(), resp.StatusCode, duration, requestDump, t.dumpResponse(resp))

	return resp, nil
}

func (t *LogTransport) dumpRequest(req *http.Request) string {
	dump, err := httputil.DumpRequestOut(req, false)
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) dumpResponse(resp *http.Response) string {
	// Archives are binary, only text bodies are worth reading in the log.
	contentType := resp.Header.Get("Content-Type")

	dump, err := httputil.DumpResponse(resp, utils.IsTextContentType(contentType))
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) truncate(data []byte) string {
	if len(data) > t.maxDumpLength {
		return string(data[:t.maxDumpLength]) + "... [truncated]"
	}

	return string(data)
}
