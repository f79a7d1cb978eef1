// Package codec converts oracle requests and replies to and from their ABI wire form.
package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	uint256Type = mustType("uint256")
	bytesType   = mustType("bytes")

	// (uint256 type, uint256 requestId, uint256 payload)
	replyArgs = abi.Arguments{
		{Name: "type", Type: uint256Type},
		{Name: "requestId", Type: uint256Type},
		{Name: "payload", Type: uint256Type},
	}

	// (uint256 requestId, uint256 otp, bytes userAddress, bytes factorHash)
	requestArgs = abi.Arguments{
		{Name: "requestId", Type: uint256Type},
		{Name: "otp", Type: uint256Type},
		{Name: "userAddress", Type: bytesType},
		{Name: "factorHash", Type: bytesType},
	}
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// word copies x for packing; the ABI packer truncates its argument to 256 bits in place.
func word(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x)
}
