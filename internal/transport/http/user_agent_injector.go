package http

import "net/http"

// userAgentHeader is the HTTP header name for User-Agent.
const userAgentHeader = "User-Agent"

// UserAgentInjector sets a fixed User-Agent on requests that carry none.
type UserAgentInjector struct {
	next      http.RoundTripper
	userAgent string
}

// NewUserAgentInjector wraps next. An empty userAgent falls back to DefaultUserAgent.
func NewUserAgentInjector(next http.RoundTripper, userAgent string) http.RoundTripper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &UserAgentInjector{
		next:      next,
		userAgent: userAgent,
	}
}

// RoundTrip implements the http.RoundTripper interface.
// The request is cloned before the header is touched, as RoundTrippers must not mutate their input.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(userAgentHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(userAgentHeader, t.userAgent)
	}

	return t.next.RoundTrip(req)
}
