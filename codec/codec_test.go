package codec

import (
	"errors"
	"math/big"
	"testing"

	"github.com/MetaBloxIO/otp_oracle/errcode"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHex(t *testing.T) {
	assert.True(t, IsHex("0xdeadbeef"))
	assert.True(t, IsHex("0xDEADBEEF"))
	assert.True(t, IsHex("0X0a"))
	assert.False(t, IsHex("deadbeef"))
	assert.False(t, IsHex("0xZZ"))
	assert.False(t, IsHex("0x"))
	assert.False(t, IsHex(""))
}

func TestToHex(t *testing.T) {
	assert.Equal(t, "0x616263", ToHex("abc"))
	// control characters stay two digits wide
	assert.Equal(t, "0x0a41", ToHex("\nA"))
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{
		"a",
		"0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		"YF1rTsHLlf2WjJzN1CZpXA==",
		"AuthPayload=123456&FactorSid=YF0123",
		"\x01\x7f",
		"ünïcödé",
	} {
		decoded, err := FromHex(ToHex(s))
		require.NoError(t, err, s)
		assert.Equal(t, s, decoded)
	}
}

func TestFromHexRejects(t *testing.T) {
	for _, in := range []string{"", "0x", "abc", "0xZZ", "0x123", "0xff"} {
		_, err := FromHex(in)
		assert.True(t, errors.Is(err, errcode.ErrFailedToDecode), "%q: %v", in, err)
	}
}

func TestFromHexUpperCase(t *testing.T) {
	s, err := FromHex("0x4A4b")
	require.NoError(t, err)
	assert.Equal(t, "JK", s)
}

func TestReplyRoundTrip(t *testing.T) {
	huge, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)

	cases := []struct {
		typ       ReplyType
		requestID *big.Int
		payload   *big.Int
	}{
		{TypeResponse, big.NewInt(1), big.NewInt(1)},
		{TypeResponse, big.NewInt(7), big.NewInt(0)},
		{TypeError, big.NewInt(0), big.NewInt(4)},
		{TypeError, huge, big.NewInt(5)},
	}

	for _, c := range cases {
		data := EncodeReply(c.typ, c.requestID, c.payload)
		assert.Len(t, data, 96)

		reply, err := DecodeReply(data)
		require.NoError(t, err)
		assert.Equal(t, c.typ, reply.Type)
		assert.Equal(t, 0, c.requestID.Cmp(reply.RequestID))
		assert.Equal(t, 0, c.payload.Cmp(reply.Payload))
	}
}

func TestEncodeReplyLayout(t *testing.T) {
	data := EncodeReply(TypeError, big.NewInt(3), big.NewInt(2))

	assert.Equal(t,
		"0x"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"0000000000000000000000000000000000000000000000000000000000000003"+
			"0000000000000000000000000000000000000000000000000000000000000002",
		hexutil.Encode(data))
}

func TestEncodeReplyNilAndInputUntouched(t *testing.T) {
	reply, err := DecodeReply(EncodeReply(TypeError, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(0), reply.RequestID.Int64())
	assert.Equal(t, int64(0), reply.Payload.Int64())

	id := big.NewInt(99)
	EncodeReply(TypeResponse, id, big.NewInt(1))
	assert.Equal(t, int64(99), id.Int64())
}

func TestRequestRoundTrip(t *testing.T) {
	in := &Request{
		RequestID:   big.NewInt(42),
		OTP:         big.NewInt(123456),
		UserAddress: []byte("0x71C7656EC7ab88b098defB751B7401B5f6d8976F"),
		FactorHash:  []byte("c2f0d1e1a7"),
	}

	data, err := EncodeRequest(in)
	require.NoError(t, err)

	out, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.RequestID.Int64())
	assert.Equal(t, int64(123456), out.OTP.Int64())
	assert.Equal(t, in.UserAddress, out.UserAddress)
	assert.Equal(t, in.FactorHash, out.FactorHash)
}

func TestDecodeRequestMalformed(t *testing.T) {
	reply := EncodeReply(TypeResponse, big.NewInt(9), big.NewInt(1))

	for _, data := range [][]byte{nil, {0x01, 0x02}, reply[:64]} {
		_, err := DecodeRequest(data)
		assert.True(t, errors.Is(err, errcode.ErrMalformedRequest), "%x: %v", data, err)
	}
}

func TestBestEffortRequestID(t *testing.T) {
	data, err := EncodeRequest(&Request{RequestID: big.NewInt(77), OTP: big.NewInt(1)})
	require.NoError(t, err)

	assert.Equal(t, int64(77), BestEffortRequestID(data).Int64())
	assert.Equal(t, int64(77), BestEffortRequestID(data[:32]).Int64())
	assert.Equal(t, int64(0), BestEffortRequestID(data[:31]).Int64())
	assert.Equal(t, int64(0), BestEffortRequestID(nil).Int64())
}

func TestDecodeText(t *testing.T) {
	s, err := DecodeText([]byte("0xabc"))
	require.NoError(t, err)
	assert.Equal(t, "0xabc", s)

	_, err = DecodeText(nil)
	assert.True(t, errors.Is(err, errcode.ErrFailedToDecode))

	_, err = DecodeText([]byte{0xc3})
	assert.True(t, errors.Is(err, errcode.ErrFailedToDecode))
}
