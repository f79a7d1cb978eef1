package httpbatch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxBodySize     = 2 << 20
	errBodyTooLarge = "response body too large"
)

// NetBatcher runs batches over net/http.
type NetBatcher struct {
	client *http.Client
}

// NewNetBatcher returns a batcher using client, or http.DefaultClient when client is nil.
func NewNetBatcher(client *http.Client) *NetBatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &NetBatcher{client: client}
}

func (b *NetBatcher) BatchHTTPRequest(ctx context.Context, requests []Request, timeout time.Duration) []Response {
	responses := make([]Response, len(requests))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for i := range requests {
		i := i
		g.Go(func() error {
			responses[i] = b.do(ctx, &requests[i])
			return nil
		})
	}
	g.Wait()

	return responses
}

func (b *NetBatcher) do(ctx context.Context, r *Request) Response {
	start := time.Now()
	fields := log.Fields{
		"method": r.Method,
		"url":    r.URL,
	}

	var body io.Reader
	if r.Body != "" {
		raw, err := hexutil.Decode(r.Body)
		if err != nil {
			log.WithFields(fields).WithField("error", err).Error("Request body is not hex")
			return Response{Error: "invalid hex body: " + err.Error()}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		log.WithFields(fields).WithField("error", err).Error("Build request failed")
		return Response{Error: err.Error()}
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		log.WithFields(fields).WithField("error", err).Warn("Request failed")
		return Response{Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		log.WithFields(fields).WithField("error", err).Warn("Read response body failed")
		return Response{StatusCode: resp.StatusCode, Error: err.Error()}
	}
	if len(data) > maxBodySize {
		log.WithFields(fields).WithField("status", resp.StatusCode).Warn("Response body too large")
		return Response{StatusCode: resp.StatusCode, Error: errBodyTooLarge}
	}

	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		headers[k] = strings.Join(v, ", ")
	}

	fields["status"] = resp.StatusCode
	fields["elapsed"] = time.Since(start)
	log.WithFields(fields).Debug("Request done")

	return Response{
		StatusCode:   resp.StatusCode,
		ReasonPhrase: http.StatusText(resp.StatusCode),
		Headers:      headers,
		Body:         data,
	}
}
