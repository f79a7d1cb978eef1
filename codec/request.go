package codec

import (
	"math/big"

	"github.com/MetaBloxIO/otp_oracle/errcode"
)

const wordSize = 32

// Request is the tuple sent by the consumer contract. UserAddress and FactorHash hold
// the raw bytes of UTF-8 strings.
type Request struct {
	RequestID   *big.Int
	OTP         *big.Int
	UserAddress []byte
	FactorHash  []byte
}

// DecodeRequest unpacks (uint256, uint256, bytes, bytes). Any layout mismatch is MalformedRequest.
func DecodeRequest(data []byte) (*Request, error) {
	values, err := requestArgs.Unpack(data)
	if err != nil {
		return nil, errcode.New(errcode.MalformedRequest, err)
	}

	requestID, ok1 := values[0].(*big.Int)
	otp, ok2 := values[1].(*big.Int)
	userAddress, ok3 := values[2].([]byte)
	factorHash, ok4 := values[3].([]byte)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, errcode.Errorf(errcode.MalformedRequest, "unexpected tuple %T %T %T %T",
			values[0], values[1], values[2], values[3])
	}

	return &Request{
		RequestID:   requestID,
		OTP:         otp,
		UserAddress: userAddress,
		FactorHash:  factorHash,
	}, nil
}

// EncodeRequest packs r the way the consumer contract does.
func EncodeRequest(r *Request) ([]byte, error) {
	userAddress := r.UserAddress
	if userAddress == nil {
		userAddress = []byte{}
	}
	factorHash := r.FactorHash
	if factorHash == nil {
		factorHash = []byte{}
	}
	return requestArgs.Pack(word(r.RequestID), word(r.OTP), userAddress, factorHash)
}

// BestEffortRequestID reads the leading word of a request that failed to decode.
// It returns 0 when not even one word is present.
func BestEffortRequestID(data []byte) *big.Int {
	if len(data) < wordSize {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(data[:wordSize])
}
