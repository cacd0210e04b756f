package vm

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Value is a single stack slot: either a NumberValue or a BytesValue.
type Value interface {
	isValue()
	Clone() Value
	String() string
}

// NumberValue is a fixed-point number carried as a float64 that has already
// been passed through Round6.
type NumberValue float64

func (NumberValue) isValue() {}

func (n NumberValue) Clone() Value {
	return n
}

func (n NumberValue) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

var (
	NumTrue  = NumberValue(1)
	NumFalse = NumberValue(0)
)

func BoolNumber(b bool) NumberValue {
	if b {
		return NumTrue
	}
	return NumFalse
}

type BytesValue []byte

func (BytesValue) isValue() {}

func (b BytesValue) Clone() Value {
	return BytesValue(bytes.Clone(b))
}

// String renders the bytes as a marked hex literal, which parses back to the
// same value.
func (b BytesValue) String() string {
	return HexMarker + hex.EncodeToString(b)
}

// Equal compares two values structurally. Values of different kinds are
// never equal, and neither is a nil operand.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av == bv
	case BytesValue:
		bv, ok := b.(BytesValue)
		return ok && bytes.Equal(av, bv)
	}
	return false
}

func Truthy(v Value) bool {
	switch x := v.(type) {
	case NumberValue:
		return x != 0
	case BytesValue:
		return len(x) != 0
	}
	return false
}

func AsNumber(v Value) (float64, bool) {
	n, ok := v.(NumberValue)
	return float64(n), ok
}

var (
	round6Scale = new(big.Rat).SetInt64(1_000_000)
	round6Half  = big.NewRat(1, 2)
)

// Round6 rounds f to six decimal places, ties away from zero. The rounding is
// applied to the exact binary value of f, so 0.0078125 becomes 0.007813 while
// 0.0000005 (stored slightly below the tie) becomes 0.
func Round6(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite result %v", ErrOperandType, f)
	}
	abs := math.Abs(f)
	if abs >= 1e21 {
		// Already an integer; no fractional digits to round.
		return f, nil
	}
	r := new(big.Rat).SetFloat64(abs)
	r.Mul(r, round6Scale)
	r.Add(r, round6Half)
	n := new(big.Int).Quo(r.Num(), r.Denom())
	if n.Sign() == 0 {
		return 0, nil
	}

	digits := n.String()
	if len(digits) < 7 {
		digits = strings.Repeat("0", 7-len(digits)) + digits
	}
	text := digits[:len(digits)-6] + "." + digits[len(digits)-6:]
	if f < 0 {
		text = "-" + text
	}
	out, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrOperandType, err)
	}
	return out, nil
}

// NewNumber rounds f and wraps it as a stack value.
func NewNumber(f float64) (NumberValue, error) {
	r, err := Round6(f)
	if err != nil {
		return 0, err
	}
	return NumberValue(r), nil
}
