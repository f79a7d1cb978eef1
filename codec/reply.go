package codec

import (
	"errors"
	"fmt"
	"math/big"
)

// ReplyType discriminates a successful reply from an error reply. Values match the consumer contract.
type ReplyType uint8

const (
	TypeResponse ReplyType = 0
	TypeError    ReplyType = 2
)

func (t ReplyType) String() string {
	switch t {
	case TypeResponse:
		return "RESPONSE"
	case TypeError:
		return "ERROR"
	default:
		return fmt.Sprintf("ReplyType(%d)", uint8(t))
	}
}

// Reply is the tuple returned on chain.
type Reply struct {
	Type      ReplyType
	RequestID *big.Int
	Payload   *big.Int
}

// EncodeReply packs (type, requestId, payload) as three uint256 words. Nil values pack as zero.
func EncodeReply(typ ReplyType, requestID, payload *big.Int) []byte {
	data, err := replyArgs.Pack(new(big.Int).SetUint64(uint64(typ)), word(requestID), word(payload))
	if err != nil {
		// all three arguments are *big.Int, which uint256 always accepts
		panic(err)
	}
	return data
}

// DecodeReply is the inverse of EncodeReply.
func DecodeReply(data []byte) (*Reply, error) {
	values, err := replyArgs.Unpack(data)
	if err != nil {
		return nil, err
	}

	words := make([]*big.Int, len(values))
	for i, v := range values {
		n, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("reply word %d: unexpected %T", i, v)
		}
		words[i] = n
	}

	if !words[0].IsUint64() || words[0].Uint64() > 0xff {
		return nil, errors.New("reply type out of range")
	}

	return &Reply{
		Type:      ReplyType(words[0].Uint64()),
		RequestID: words[1],
		Payload:   words[2],
	}, nil
}
