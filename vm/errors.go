package vm

import "errors"

var (
	ErrMalformed         = errors.New("malformed input")
	ErrOperandType       = errors.New("operand type error")
	ErrMissingContext    = errors.New("missing context")
	ErrItemNotFound      = errors.New("item not found")
	ErrMissingTimestamp  = errors.New("missing timestamp")
	ErrEmptyOperand      = errors.New("empty operand")
	ErrUnrecognizedToken = errors.New("unrecognized token")
	ErrStepLimit         = errors.New("step limit exceeded")
)

var allErrors = []error{
	ErrMalformed,
	ErrOperandType,
	ErrMissingContext,
	ErrItemNotFound,
	ErrMissingTimestamp,
	ErrEmptyOperand,
	ErrUnrecognizedToken,
	ErrStepLimit,
}

// ErrorKind returns the sentinel err wraps, or nil if it wraps none of them.
func ErrorKind(err error) error {
	for _, kind := range allErrors {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// ErrorByName maps a sentinel's message back to the sentinel.
func ErrorByName(name string) error {
	for _, kind := range allErrors {
		if kind.Error() == name {
			return kind
		}
	}
	return nil
}
