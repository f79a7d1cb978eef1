// Package oracle answers OTP verification requests from the consumer contract.
//
// A request runs three stages in order: decode the ABI tuple, normalize its fields, then
// resolve the factor and check the passcode. Every path ends in exactly one reply; a failing
// stage produces an ERROR reply carrying the request id and the failure's code.
package oracle

import (
	"context"
	"math/big"

	"github.com/MetaBloxIO/otp_oracle/codec"
	"github.com/MetaBloxIO/otp_oracle/errcode"
	"github.com/MetaBloxIO/otp_oracle/verify"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// FactorResolver maps a factor hash to the factor token it was registered with.
type FactorResolver interface {
	Resolve(ctx context.Context, factorHash string) (string, error)
}

// OTPVerifier checks a passcode against a user's factor.
type OTPVerifier interface {
	Verify(ctx context.Context, otp *big.Int, userAddress, factorSid string) (verify.Status, error)
}

// Oracle holds only immutable collaborators and is safe for concurrent use.
type Oracle struct {
	resolver FactorResolver
	verifier OTPVerifier
}

// New returns an Oracle that resolves factors with resolver and checks passcodes with verifier.
func New(resolver FactorResolver, verifier OTPVerifier) *Oracle {
	return &Oracle{resolver: resolver, verifier: verifier}
}

type request struct {
	requestID   *big.Int
	otp         *big.Int
	userAddress string
	factorHash  string
}

// Handle takes a 0x-prefixed hex request and returns the 0x-prefixed hex reply.
func (o *Oracle) Handle(ctx context.Context, hexRequest string) string {
	reply := o.ProcessHex(ctx, hexRequest)
	return hexutil.Encode(codec.EncodeReply(reply.Type, reply.RequestID, reply.Payload))
}

// HandleBytes is Handle for raw ABI bytes.
func (o *Oracle) HandleBytes(ctx context.Context, data []byte) []byte {
	reply := o.Process(ctx, data)
	return codec.EncodeReply(reply.Type, reply.RequestID, reply.Payload)
}

// ProcessHex decodes a hex request and runs Process. A request that is not hex is malformed.
func (o *Oracle) ProcessHex(ctx context.Context, hexRequest string) codec.Reply {
	data, err := hexutil.Decode(hexRequest)
	if err != nil {
		log.WithFields(log.Fields{
			"request": hexRequest,
			"error":   err,
		}).Info("Malformed request received")
		return errorReply(new(big.Int), errcode.New(errcode.MalformedRequest, err))
	}
	return o.Process(ctx, data)
}

// Process runs the three stages over an ABI encoded request.
func (o *Oracle) Process(ctx context.Context, data []byte) (reply codec.Reply) {
	entry := log.WithField("trace", uuid.New().String())
	requestID := codec.BestEffortRequestID(data)

	defer func() {
		if r := recover(); r != nil {
			entry.WithFields(log.Fields{
				"requestId": requestID,
				"panic":     r,
			}).Error("Request handling panicked")
			reply = codec.Reply{Type: codec.TypeError, RequestID: requestID, Payload: new(big.Int)}
		}
	}()

	entry.WithField("request", hexutil.Encode(data)).Debug("Handle request")

	decoded, err := codec.DecodeRequest(data)
	if err != nil {
		entry.WithFields(log.Fields{
			"requestId": requestID,
			"error":     err,
		}).Info("Malformed request received")
		return errorReply(requestID, err)
	}
	requestID = decoded.RequestID

	req, err := normalize(decoded)
	if err != nil {
		entry.WithFields(log.Fields{
			"requestId": requestID,
			"error":     err,
		}).Info("Request fields could not be decoded")
		return errorReply(requestID, err)
	}

	entry = entry.WithField("requestId", req.requestID)
	entry.WithFields(log.Fields{
		"userAddress": req.userAddress,
		"factorHash":  req.factorHash,
	}).Info("Request decoded")

	status, err := o.check(ctx, entry, req)
	if err != nil {
		entry.WithFields(log.Fields{
			"error": err,
			"code":  errcode.Code(err),
		}).Warn("Verification failed")
		return errorReply(req.requestID, err)
	}

	entry.WithField("status", status).Info("Verification done")
	return codec.Reply{
		Type:      codec.TypeResponse,
		RequestID: req.requestID,
		Payload:   new(big.Int).SetUint64(uint64(status)),
	}
}

func normalize(r *codec.Request) (*request, error) {
	userAddress, err := codec.DecodeText(r.UserAddress)
	if err != nil {
		return nil, err
	}
	factorHash, err := codec.DecodeText(r.FactorHash)
	if err != nil {
		return nil, err
	}

	return &request{
		requestID:   r.RequestID,
		otp:         r.OTP,
		userAddress: userAddress,
		factorHash:  factorHash,
	}, nil
}

// check resolves the factor, then verifies the passcode against it.
func (o *Oracle) check(ctx context.Context, entry *log.Entry, r *request) (verify.Status, error) {
	factor, err := o.resolver.Resolve(ctx, r.factorHash)
	if err != nil {
		return 0, err
	}
	entry.WithField("factor", factor).Debug("Factor resolved")

	return o.verifier.Verify(ctx, r.otp, r.userAddress, factor)
}

func errorReply(requestID *big.Int, err error) codec.Reply {
	return codec.Reply{
		Type:      codec.TypeError,
		RequestID: requestID,
		Payload:   new(big.Int).SetUint64(errcode.Code(err)),
	}
}
