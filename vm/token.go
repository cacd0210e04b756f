package vm

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HexMarker forces a token to be read as a byte string even when its hex
// payload is made only of digits.
const HexMarker = "HEX:"

type TokenKind int

const (
	TokenInvalid TokenKind = iota
	TokenOpcode
	TokenNumber
	TokenBytes
)

func (k TokenKind) String() string {
	switch k {
	case TokenOpcode:
		return "opcode"
	case TokenNumber:
		return "number"
	case TokenBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// Token is a script word after classification. Exactly one of Op, Num or
// Bytes is meaningful, selected by Kind. Err is set for TokenInvalid.
type Token struct {
	Text  string
	Kind  TokenKind
	Op    Opcode
	Num   NumberValue
	Bytes BytesValue
	Err   error
}

// Classify decides once what a script word is: an instruction, a native
// number, or a native byte string. Instructions win over everything, then an
// unmarked finite number, then hex bytes.
func Classify(text string) Token {
	if op, ok := LookupOpcode(text); ok {
		return Token{Text: text, Kind: TokenOpcode, Op: op}
	}
	if !IsHexMarked(text) {
		if f, ok := ParseNumber(text); ok {
			n, err := NewNumber(f)
			if err != nil {
				return Token{Text: text, Kind: TokenInvalid, Err: err}
			}
			return Token{Text: text, Kind: TokenNumber, Num: n}
		}
	}
	b, err := DecodeBytes(text)
	if err != nil {
		return Token{Text: text, Kind: TokenInvalid, Err: err}
	}
	return Token{Text: text, Kind: TokenBytes, Bytes: b}
}

func IsHexMarked(text string) bool {
	return strings.HasPrefix(text, HexMarker)
}

// ParseNumber accepts finite decimal numbers (optional sign, fraction and
// exponent). The empty token left by a doubled, leading or trailing space
// reads as 0. Hex floats, infinities and NaN are rejected.
func ParseNumber(text string) (float64, bool) {
	if text == "" {
		return 0, true
	}
	if strings.ContainsAny(text, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// DecodeBytes strips an optional HexMarker and hex-decodes the rest.
func DecodeBytes(text string) (BytesValue, error) {
	payload := strings.TrimPrefix(text, HexMarker)
	b, err := hex.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an opcode, number or hex string", ErrUnrecognizedToken, text)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %q decodes to zero bytes", ErrEmptyOperand, text)
	}
	return BytesValue(b), nil
}

// EncodeString hex-encodes s as a marked byte-string literal.
func EncodeString(s string) string {
	return HexMarker + hex.EncodeToString([]byte(s))
}
