// Package factor looks up the second-factor token registered for a factor hash.
package factor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MetaBloxIO/otp_oracle/conf"
	"github.com/MetaBloxIO/otp_oracle/errcode"
	"github.com/MetaBloxIO/otp_oracle/httpbatch"
	log "github.com/sirupsen/logrus"
)

const lookupPath = "/api/factor"

// Resolver queries the factor lookup service through the host's HTTP batcher.
type Resolver struct {
	batcher httpbatch.Batcher
	baseURL string
	auth    string
	timeout time.Duration
}

// NewResolver reads the lookup endpoint, credential and timeout from conf.
func NewResolver(conf *conf.Conf, batcher httpbatch.Batcher) *Resolver {
	return &Resolver{
		batcher: batcher,
		baseURL: strings.TrimRight(conf.FactorURL, "/"),
		auth:    conf.FactorAuth,
		timeout: conf.Timeout,
	}
}

type lookupResponse struct {
	Factor interface{} `json:"factor"`
}

// Resolve returns the factor token for factorHash. A transport failure or a body that is
// not JSON is returned unclassified; a body without a factor is BadFactorSid.
func (r *Resolver) Resolve(ctx context.Context, factorHash string) (string, error) {
	query := url.Values{"factorHash": {factorHash}}
	request := httpbatch.Request{
		URL:     r.baseURL + lookupPath + "?" + query.Encode(),
		Method:  http.MethodGet,
		Headers: map[string]string{"Authorization": r.auth},
	}

	resp := r.batcher.BatchHTTPRequest(ctx, []httpbatch.Request{request}, r.timeout)[0]
	if resp.Error != "" {
		log.WithFields(log.Fields{
			"factorHash": factorHash,
			"error":      resp.Error,
		}).Error("Factor lookup failed")
		return "", fmt.Errorf("factor lookup: %s", resp.Error)
	}

	var body lookupResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		log.WithFields(log.Fields{
			"factorHash": factorHash,
			"status":     resp.StatusCode,
			"error":      err,
		}).Error("Factor lookup returned invalid JSON")
		return "", fmt.Errorf("factor lookup: %w", err)
	}

	factor, ok := body.Factor.(string)
	if !ok || factor == "" {
		log.WithFields(log.Fields{
			"factorHash": factorHash,
			"status":     resp.StatusCode,
		}).Warn("Factor lookup returned no factor")
		return "", errcode.Errorf(errcode.BadFactorSid, "no factor for hash %s", factorHash)
	}

	return factor, nil
}
