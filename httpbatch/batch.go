// Package httpbatch is the outbound HTTP capability the oracle is given by its host:
// a batch of requests executed under one deadline, one response per request.
package httpbatch

import (
	"context"
	"time"
)

// Request describes one outbound call.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	// Body is the 0x-prefixed hex encoding of the request body. Empty means no body.
	Body string
}

// Response is the outcome of one Request. Error is set, and StatusCode is 0, when the
// call failed before a response arrived.
type Response struct {
	StatusCode   int
	ReasonPhrase string
	Headers      map[string]string
	Body         []byte
	Error        string
}

// Batcher executes requests within timeout. The result has the same length and order as requests.
type Batcher interface {
	BatchHTTPRequest(ctx context.Context, requests []Request, timeout time.Duration) []Response
}

// BatcherFunc adapts a function to Batcher.
type BatcherFunc func(ctx context.Context, requests []Request, timeout time.Duration) []Response

func (f BatcherFunc) BatchHTTPRequest(ctx context.Context, requests []Request, timeout time.Duration) []Response {
	return f(ctx, requests, timeout)
}
