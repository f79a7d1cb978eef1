package codec

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MetaBloxIO/otp_oracle/errcode"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var hexPattern = regexp.MustCompile(`^0x[0-9a-f]+$`)

// ToHex returns the 0x-prefixed lowercase hex form of text's bytes.
func ToHex(text string) string {
	return hexutil.Encode([]byte(text))
}

// IsHex reports whether text is 0x followed by at least one hex digit, ignoring case.
func IsHex(text string) bool {
	return hexPattern.MatchString(strings.ToLower(text))
}

// FromHex decodes a 0x-prefixed hex string into the UTF-8 string it carries.
func FromHex(text string) (string, error) {
	if !IsHex(text) {
		return "", errcode.Errorf(errcode.FailedToDecode, "not a hex string: %q", text)
	}

	raw, err := hexutil.Decode(text)
	if err != nil {
		return "", errcode.New(errcode.FailedToDecode, err)
	}

	if !utf8.Valid(raw) {
		return "", errcode.Errorf(errcode.FailedToDecode, "invalid utf-8 in %s", text)
	}

	return string(raw), nil
}

// DecodeText reads an ABI bytes field as the UTF-8 string it carries. Empty fields are rejected.
func DecodeText(raw []byte) (string, error) {
	return FromHex(hexutil.Encode(raw))
}
