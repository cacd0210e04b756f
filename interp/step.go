package interp

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zenzo-ecosystem/zvm/vm"
)

type StepResult int

const (
	ContinueStep StepResult = iota
	DiscontinueStep
	ErrorStep
)

func (r StepResult) String() string {
	switch r {
	case ContinueStep:
		return "Continue"
	case DiscontinueStep:
		return "Discontinue"
	case ErrorStep:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// Step dispatches a single token against the execution context's stack. rest
// holds the tokens still to run after this one.
func Step(ec *ExecutionContext, token string, rest []string) (StepResult, error) {
	tok := vm.Classify(token)

	log.Trace().
		Str("exec", ec.ID.String()).
		Str("token", token).
		Str("kind", tok.Kind.String()).
		Int("remaining", len(rest)).
		Strs("stack", ec.Stack.Strings()).
		Msg("Step: executing token")

	switch tok.Kind {
	case vm.TokenInvalid:
		log.Trace().Str("token", token).Err(tok.Err).Msg("  INVALID")
		return ErrorStep, tok.Err
	case vm.TokenNumber:
		ec.Stack.Push(tok.Num)
		log.Trace().Str("value", tok.Num.String()).Strs("stack", ec.Stack.Strings()).Msg("  PUSH number")
		return ContinueStep, nil
	case vm.TokenBytes:
		ec.Stack.Push(tok.Bytes)
		log.Trace().Str("value", tok.Bytes.String()).Strs("stack", ec.Stack.Strings()).Msg("  PUSH bytes")
		return ContinueStep, nil
	}

	switch tok.Op {
	case vm.ADD, vm.SUB, vm.MUL, vm.DIV:
		a, b, err := frontNumbers(ec, tok.Op)
		if err != nil {
			log.Trace().Str("op", tok.Op.String()).Err(err).Msg("  NUMERIC_OP: error")
			return ErrorStep, err
		}
		v, err := numericOp(tok.Op, a, b)
		if err != nil {
			log.Trace().Str("op", tok.Op.String()).Float64("a", a).Float64("b", b).Err(err).Msg("  NUMERIC_OP: error")
			return ErrorStep, err
		}
		ec.Stack.DropFront(2)
		ec.Stack.Push(v)
		log.Trace().Str("op", tok.Op.String()).Float64("a", a).Float64("b", b).Str("result", v.String()).Strs("stack", ec.Stack.Strings()).Msg("  NUMERIC_OP")
	case vm.DUP:
		if ec.Stack.Len() == 0 {
			return ErrorStep, underflow(tok.Op, 1, 0)
		}
		ec.Stack.Push(ec.Stack.Back().Clone())
		log.Trace().Str("value", FormatValue(ec.Stack.Back())).Strs("stack", ec.Stack.Strings()).Msg("  DUP")
	case vm.EQUAL:
		if ec.Stack.Len() < 2 {
			return ErrorStep, underflow(tok.Op, 2, ec.Stack.Len())
		}
		a, b := ec.Stack.At(0), ec.Stack.At(1)
		result := vm.BoolNumber(vm.Equal(a, b))
		ec.Stack.DropFront(2)
		ec.Stack.Push(result)
		log.Trace().Str("a", FormatValue(a)).Str("b", FormatValue(b)).Str("result", result.String()).Strs("stack", ec.Stack.Strings()).Msg("  EQUAL")
	case vm.LESSTHAN, vm.GREATERTHAN:
		a, b, err := frontNumbers(ec, tok.Op)
		if err != nil {
			log.Trace().Str("op", tok.Op.String()).Err(err).Msg("  COMPARE: error")
			return ErrorStep, err
		}
		var result vm.NumberValue
		if tok.Op == vm.LESSTHAN {
			result = vm.BoolNumber(a < b)
		} else {
			result = vm.BoolNumber(a > b)
		}
		ec.Stack.DropFront(2)
		ec.Stack.Push(result)
		log.Trace().Str("op", tok.Op.String()).Float64("a", a).Float64("b", b).Str("result", result.String()).Strs("stack", ec.Stack.Strings()).Msg("  COMPARE")
	case vm.CONTINUETRUE:
		if ec.Stack.Len() == 0 {
			return ErrorStep, underflow(tok.Op, 1, 0)
		}
		cond := ec.Stack.Back()
		if !vm.Equal(cond, vm.NumTrue) {
			ec.discontinued = true
			log.Trace().Str("condition", FormatValue(cond)).Strs("stack", ec.Stack.Strings()).Msg("  CONTINUETRUE: discontinuing")
			return DiscontinueStep, nil
		}
		ec.Stack.PopBack()
		log.Trace().Strs("stack", ec.Stack.Strings()).Msg("  CONTINUETRUE: continuing")
	case vm.EPOCH:
		now := vm.NumberValue(ec.epoch())
		ec.Stack.Push(now)
		log.Trace().Str("value", now.String()).Msg("  EPOCH")
	case vm.CHAINEPOCH:
		if ec.Data == nil {
			return ErrorStep, missingContext(tok.Op, "contextual data")
		}
		var ts int64
		if t := ec.Data.This.Timestamp; t == nil || *t == -1 {
			// Not in a block yet (pending or in the mempool): treat it as
			// arriving now, otherwise it would fail its first validation.
			ts = ec.epoch()
		} else {
			ts = *t
		}
		if ts < 0 {
			return ErrorStep, fmt.Errorf("%w: CHAINEPOCH produced negative epoch %d", vm.ErrOperandType, ts)
		}
		ec.Stack.Push(vm.NumberValue(ts))
		log.Trace().Int64("value", ts).Msg("  CHAINEPOCH")
	case vm.GETBESTBLK:
		if ec.Data == nil || ec.Data.BestBlock == nil {
			return ErrorStep, missingContext(tok.Op, "best block")
		}
		ec.Stack.Push(vm.NumberValue(*ec.Data.BestBlock))
		log.Trace().Int64("value", *ec.Data.BestBlock).Msg("  GETBESTBLK")
	case vm.ISNAMEUSED:
		return isNameUsed(ec)
	case vm.GETITEMEPOCH:
		return getItemEpoch(ec)
	default:
		return ErrorStep, fmt.Errorf("%w: unhandled opcode %s", vm.ErrUnrecognizedToken, tok.Op)
	}
	return ContinueStep, nil
}

// isNameUsed reads the oldest entry as a name and looks for a ZFI-1 item
// other than this one carrying it.
func isNameUsed(ec *ExecutionContext) (StepResult, error) {
	name, ok := ec.Stack.At(0).(vm.BytesValue)
	if !ok || len(name) == 0 {
		err := fmt.Errorf("%w: ISNAMEUSED needs a non-empty byte string at the front of the stack, got %s", vm.ErrOperandType, describe(ec.Stack.At(0)))
		log.Trace().Err(err).Msg("  ISNAMEUSED: error")
		return ErrorStep, err
	}
	if ec.Data == nil {
		return ErrorStep, missingContext(vm.ISNAMEUSED, "signed items")
	}
	zfi1, _ := vm.LookupStandard(vm.ZFI1)

	var found *Item
	for i := range ec.Data.SignedItems {
		item := &ec.Data.SignedItems[i]
		if item.Tx == ec.Data.This.StrTx {
			continue
		}
		if item.Contracts.Validation == "" {
			continue
		}
		// Only ZFI-1 items claim names; others may share them freely.
		if !vm.ScriptConformsToStandard(item.Contracts.Validation, zfi1) {
			continue
		}
		if string(name) == item.StrName {
			found = item
			break
		}
	}

	ec.Stack.DropFront(1)
	if found != nil {
		ec.Stack.Push(vm.BytesValue(found.Tx))
		ec.Stack.Push(vm.NumTrue)
		log.Trace().Str("name", string(name)).Str("tx", found.Tx).Strs("stack", ec.Stack.Strings()).Msg("  ISNAMEUSED: used")
	} else {
		ec.Stack.Push(vm.NumFalse)
		log.Trace().Str("name", string(name)).Strs("stack", ec.Stack.Strings()).Msg("  ISNAMEUSED: unused")
	}
	return ContinueStep, nil
}

// getItemEpoch replaces the newest entry, a transaction id, with the
// timestamp of the matching item.
func getItemEpoch(ec *ExecutionContext) (StepResult, error) {
	tx, ok := ec.Stack.Back().(vm.BytesValue)
	if !ok || len(tx) != TxLength {
		err := fmt.Errorf("%w: GETITEMEPOCH needs a %d character tx id at the back of the stack, got %s", vm.ErrOperandType, TxLength, describe(ec.Stack.Back()))
		log.Trace().Err(err).Msg("  GETITEMEPOCH: error")
		return ErrorStep, err
	}
	if ec.Data == nil {
		return ErrorStep, missingContext(vm.GETITEMEPOCH, "signed items")
	}
	item, ok := ec.Data.FindItem(string(tx))
	if !ok {
		log.Trace().Str("tx", string(tx)).Msg("  GETITEMEPOCH: not found")
		return ErrorStep, fmt.Errorf("%w: no item with tx %s", vm.ErrItemNotFound, string(tx))
	}
	if item.Timestamp == nil || *item.Timestamp == 0 {
		log.Trace().Str("tx", string(tx)).Msg("  GETITEMEPOCH: no timestamp")
		return ErrorStep, fmt.Errorf("%w: item %s has no timestamp", vm.ErrMissingTimestamp, item.Tx)
	}
	ec.Stack.SetBack(vm.NumberValue(*item.Timestamp))
	log.Trace().Str("tx", item.Tx).Int64("value", *item.Timestamp).Strs("stack", ec.Stack.Strings()).Msg("  GETITEMEPOCH")
	return ContinueStep, nil
}

// frontNumbers returns the two oldest entries as numbers.
func frontNumbers(ec *ExecutionContext, op vm.Opcode) (float64, float64, error) {
	if ec.Stack.Len() < 2 {
		return 0, 0, underflow(op, 2, ec.Stack.Len())
	}
	a, aok := vm.AsNumber(ec.Stack.At(0))
	b, bok := vm.AsNumber(ec.Stack.At(1))
	if !aok || !bok {
		return 0, 0, fmt.Errorf("%w: %s needs two numbers, got %s and %s", vm.ErrOperandType, op, describe(ec.Stack.At(0)), describe(ec.Stack.At(1)))
	}
	return a, b, nil
}

// numericOp applies op and normalizes the result. Division by zero is not
// checked: the non-finite quotient fails normalization.
func numericOp(op vm.Opcode, a, b float64) (vm.NumberValue, error) {
	var r float64
	switch op {
	case vm.ADD:
		r = a + b
	case vm.SUB:
		r = a - b
	case vm.MUL:
		r = a * b
	case vm.DIV:
		r = a / b
	default:
		panic("Unhandled numericOp code")
	}
	n, err := vm.NewNumber(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func underflow(op vm.Opcode, want, have int) error {
	return fmt.Errorf("%w: stack underflow, %s needs %d entries, have %d", vm.ErrOperandType, op, want, have)
}

func missingContext(op vm.Opcode, what string) error {
	return fmt.Errorf("%w: %s requires %s", vm.ErrMissingContext, op, what)
}

func describe(v vm.Value) string {
	switch x := v.(type) {
	case nil:
		return "nothing"
	case vm.NumberValue:
		return "number " + x.String()
	case vm.BytesValue:
		return fmt.Sprintf("%d bytes", len(x))
	}
	return fmt.Sprintf("%T", v)
}
