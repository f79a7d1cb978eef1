// Package verify checks a one-time passcode against a Twilio Verify factor challenge.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MetaBloxIO/otp_oracle/codec"
	"github.com/MetaBloxIO/otp_oracle/conf"
	"github.com/MetaBloxIO/otp_oracle/errcode"
	"github.com/MetaBloxIO/otp_oracle/httpbatch"
	log "github.com/sirupsen/logrus"
)

// Status is the challenge outcome reported on chain.
type Status uint8

const (
	Pending  Status = 0
	Approved Status = 1
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Approved:
		return "approved"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Verifier posts challenges to Twilio Verify through the host's HTTP batcher.
type Verifier struct {
	batcher    httpbatch.Batcher
	baseURL    string
	serviceID  string
	credential string
	timeout    time.Duration
}

// NewVerifier reads the service endpoint, service id, credential and timeout from conf.
func NewVerifier(conf *conf.Conf, batcher httpbatch.Batcher) *Verifier {
	return &Verifier{
		batcher:    batcher,
		baseURL:    strings.TrimRight(conf.VerifyURL, "/"),
		serviceID:  conf.VerifyServiceID,
		credential: conf.VerifyCredential,
		timeout:    conf.Timeout,
	}
}

type challengeResponse struct {
	Status interface{} `json:"status"`
}

func (v *Verifier) challengesURL(userAddress string) string {
	return v.baseURL + "/v2/Services/" + url.PathEscape(v.serviceID) +
		"/Entities/" + url.PathEscape(userAddress) + "/Challenges"
}

// Verify creates a challenge for factorSid answered with otp and reports its status.
func (v *Verifier) Verify(ctx context.Context, otp *big.Int, userAddress, factorSid string) (Status, error) {
	form := url.Values{
		"AuthPayload": {otp.String()},
		"FactorSid":   {factorSid},
	}

	request := httpbatch.Request{
		URL:    v.challengesURL(userAddress),
		Method: http.MethodPost,
		Headers: map[string]string{
			"Content-Type":  "application/x-www-form-urlencoded",
			"Authorization": "Basic " + v.credential,
		},
		Body: codec.ToHex(form.Encode()),
	}

	resp := v.batcher.BatchHTTPRequest(ctx, []httpbatch.Request{request}, v.timeout)[0]
	if resp.Error != "" || (resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated) {
		detail := resp.Error
		if detail == "" {
			detail = string(resp.Body)
		}
		log.WithFields(log.Fields{
			"userAddress": userAddress,
			"status":      resp.StatusCode,
			"error":       detail,
		}).Error("OTP check failed")
		return 0, errcode.Errorf(errcode.FailedToFetchData, "status %d", resp.StatusCode)
	}

	if !utf8.Valid(resp.Body) {
		return 0, errcode.Errorf(errcode.FailedToDecode, "challenge body is not text")
	}

	var body challengeResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		log.WithFields(log.Fields{
			"userAddress": userAddress,
			"error":       err,
		}).Error("Challenge response is not JSON")
		return 0, fmt.Errorf("challenge response: %w", err)
	}

	switch body.Status {
	case "pending":
		return Pending, nil
	case "approved":
		return Approved, nil
	default:
		log.WithFields(log.Fields{
			"userAddress": userAddress,
			"status":      body.Status,
		}).Warn("Unexpected challenge status")
		return 0, errcode.Errorf(errcode.ErrorWhileParse, "challenge status %v", body.Status)
	}
}
