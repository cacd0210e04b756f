package interp

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zenzo-ecosystem/zvm/vm"
)

func TestExecuteArithmetic(t *testing.T) {
	tests := []struct {
		script   string
		expected vm.Value
	}{
		{"1.123456789 2 ADD", vm.NumberValue(3.123457)},
		{"5 2 SUB", vm.NumberValue(3)},
		{"0.1 0.2 ADD", vm.NumberValue(0.3)},
		{"1.5 1.5 MUL", vm.NumberValue(2.25)},
		{"2 3 DIV", vm.NumberValue(0.666667)},
		{"1 2 ADD 4 MUL", vm.NumberValue(12)},
		{"4 1 2 ADD", vm.NumberValue(2)}, // ADD consumes 4 and 1, leaving 2 at the front
		{"HEX:6162 HEX:6162 EQUAL", vm.NumberValue(1)},
		{"HEX:6162 DUP", vm.BytesValue("ab")},
		{"5  ADD", vm.NumberValue(5)},
		{" 7 SUB", vm.NumberValue(-7)},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			res := Execute(tt.script, nil)
			require.NoError(t, res.Err)
			require.True(t, res.Success)
			require.Equal(t, "Script executed successfully", res.Message)
			require.Equal(t, tt.expected, res.Value)
		})
	}
}

func TestExecuteMalformed(t *testing.T) {
	res := Execute("", nil)
	require.False(t, res.Success)
	require.ErrorIs(t, res.Err, vm.ErrMalformed)

	res = Execute("ADD", nil)
	require.False(t, res.Success)
	require.ErrorIs(t, res.Err, vm.ErrMalformed)
	require.Contains(t, res.Message, "too few params")
}

func TestExecuteFailureNamesToken(t *testing.T) {
	res := Execute("1 HEX:02 ADD", nil)
	require.False(t, res.Success)
	require.ErrorIs(t, res.Err, vm.ErrOperandType)
	require.Equal(t, `Stack processor failure at operation "ADD"`, res.Message)
	require.Nil(t, res.Value)

	res = Execute("1 0 DIV", nil)
	require.False(t, res.Success)
	require.ErrorIs(t, res.Err, vm.ErrOperandType)

	res = Execute("1 HEX:", nil)
	require.ErrorIs(t, res.Err, vm.ErrEmptyOperand)

	res = Execute("1 FOO", nil)
	require.ErrorIs(t, res.Err, vm.ErrUnrecognizedToken)
}

func TestExecuteDiscontinue(t *testing.T) {
	res := Execute("5 3 LESSTHAN CONTINUETRUE", &ContextualData{})
	require.True(t, res.Success)
	require.NoError(t, res.Err)
	require.Equal(t, "Script executed successfully, discontinued by condition", res.Message)
	require.Equal(t, vm.NumTrue, res.Value)

	res = Execute("3 5 LESSTHAN CONTINUETRUE 7 8 ADD", nil)
	require.True(t, res.Success)
	require.Equal(t, "Script executed successfully", res.Message)
	require.Equal(t, vm.NumberValue(15), res.Value)
}

func TestExecuteEmptyStackResult(t *testing.T) {
	res := Execute("1 CONTINUETRUE", nil)
	require.True(t, res.Success)
	require.Nil(t, res.Value)
}

func TestExecuteStepLimit(t *testing.T) {
	res := ExecuteWithOptions("1 2 ADD 3 ADD", nil, Options{MaxSteps: 3})
	require.False(t, res.Success)
	require.ErrorIs(t, res.Err, vm.ErrStepLimit)
}

func zfi1Context(thisTx string, thisTs *int64) *ContextualData {
	return &ContextualData{
		BestBlock: Int64(50),
		SignedItems: []Item{
			{Tx: txID('a'), StrName: "alice", Timestamp: Int64(1000), Contracts: Contracts{Validation: zfi1Alice}},
			{Tx: txID('b'), StrName: "alice", Timestamp: Int64(2000), Contracts: Contracts{Validation: zfi1Alice}},
			{Tx: txID('c'), StrName: "carol", Timestamp: Int64(1500), Contracts: Contracts{Validation: "HEX:6361726f6c ISNAMEUSED CONTINUETRUE GETITEMEPOCH CHAINEPOCH GREATERTHAN"}},
		},
		This: ThisItem{StrTx: thisTx, Timestamp: thisTs},
	}
}

func TestExecuteZFI1(t *testing.T) {
	opts := Options{Now: func() time.Time { return time.Unix(5000, 0) }}

	// The older claim is valid: the other alice is newer.
	res := ExecuteWithOptions(zfi1Alice, zfi1Context(txID('a'), Int64(1000)), opts)
	require.True(t, res.Success)
	require.True(t, res.Valid())

	// The newer claim loses to the older one.
	res = ExecuteWithOptions(zfi1Alice, zfi1Context(txID('b'), Int64(2000)), opts)
	require.True(t, res.Success)
	require.Equal(t, vm.NumFalse, res.Value)
	require.False(t, res.Valid())

	// An unconfirmed claim is dated now, so it loses too.
	res = ExecuteWithOptions(zfi1Alice, zfi1Context(txID('f'), nil), opts)
	require.Equal(t, vm.NumFalse, res.Value)

	// A unique name discontinues as valid.
	carol := zfi1Context(txID('c'), Int64(1500)).SignedItems[2].Contracts.Validation
	res = ExecuteWithOptions(carol, zfi1Context(txID('c'), Int64(1500)), opts)
	require.True(t, res.Valid())
	require.Contains(t, res.Message, "discontinued")
}

func TestExecuteIsolation(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			res := Execute(fmt.Sprintf("%d %d ADD", i, i), nil)
			if !res.Success || res.Value != vm.NumberValue(2*i) {
				errs <- fmt.Errorf("add %d: got %v (%v)", i, res.Value, res.Err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			res := Execute(fmt.Sprintf("HEX:%02x DUP DUP", i), nil)
			if !res.Success || !vm.Equal(res.Value, vm.BytesValue{byte(i)}) {
				errs <- fmt.Errorf("dup %d: got %v (%v)", i, res.Value, res.Err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
