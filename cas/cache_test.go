package cas

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zenzo-ecosystem/zvm/interp"
	"github.com/zenzo-ecosystem/zvm/vm"
)

const zfi1Alice = "HEX:616c696365 ISNAMEUSED CONTINUETRUE GETITEMEPOCH CHAINEPOCH GREATERTHAN"

func tx(c byte) string {
	return strings.Repeat(string(c), interp.TxLength)
}

func aliceContext(this string, ts *int64) *interp.ContextualData {
	return &interp.ContextualData{
		SignedItems: []interp.Item{
			{Tx: tx('a'), StrName: "alice", Timestamp: interp.Int64(100), Contracts: interp.Contracts{Validation: zfi1Alice}},
			{Tx: tx('b'), StrName: "alice", Timestamp: interp.Int64(200), Contracts: interp.Contracts{Validation: zfi1Alice}},
		},
		This: interp.ThisItem{StrTx: this, Timestamp: ts},
	}
}

func TestKeyIsStable(t *testing.T) {
	k1, err := Key("1 2 ADD", aliceContext(tx('a'), interp.Int64(100)), 0)
	require.NoError(t, err)
	k2, err := Key("1 2 ADD", aliceContext(tx('a'), interp.Int64(100)), 0)
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	other, err := Key("1 2 ADD", aliceContext(tx('b'), interp.Int64(200)), 0)
	require.NoError(t, err)
	require.NotEqual(t, k1, other)

	budget, err := Key("1 2 ADD", aliceContext(tx('a'), interp.Int64(100)), 5)
	require.NoError(t, err)
	require.NotEqual(t, k1, budget)

	bare, err := Key("1 2 ADD", nil, 0)
	require.NoError(t, err)
	require.NotEqual(t, k1, bare)
}

func TestCacheable(t *testing.T) {
	require.True(t, Cacheable("1 2 ADD", nil))
	require.False(t, Cacheable("EPOCH 1 GREATERTHAN", aliceContext(tx('a'), interp.Int64(100))))
	require.True(t, Cacheable(zfi1Alice, aliceContext(tx('a'), interp.Int64(100))))
	require.False(t, Cacheable(zfi1Alice, aliceContext(tx('a'), nil)))
	require.False(t, Cacheable(zfi1Alice, aliceContext(tx('a'), interp.Int64(-1))))
	require.False(t, Cacheable(zfi1Alice, nil))
}

func TestExecuteHitAndMiss(t *testing.T) {
	store := NewLRUCache(NewMemoryCAS(), 10)
	data := aliceContext(tx('b'), interp.Int64(200))

	res, hit, err := Execute(store, zfi1Alice, data, interp.Options{})
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, vm.NumFalse, res.Value)

	cached, hit, err := Execute(store, zfi1Alice, data, interp.Options{})
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, res.Value, cached.Value)
	require.Equal(t, res.Message, cached.Message)
	require.Equal(t, res.Success, cached.Success)
	require.Equal(t, 1, store.Len())
}

func TestExecuteRestoresErrors(t *testing.T) {
	store := NewMemoryCAS()

	res, _, err := Execute(store, "1 HEX:02 ADD", nil, interp.Options{})
	require.NoError(t, err)
	require.ErrorIs(t, res.Err, vm.ErrOperandType)

	cached, hit, err := Execute(store, "1 HEX:02 ADD", nil, interp.Options{})
	require.NoError(t, err)
	require.True(t, hit)
	require.False(t, cached.Success)
	require.Nil(t, cached.Value)
	require.ErrorIs(t, cached.Err, vm.ErrOperandType)
	require.Equal(t, res.Err.Error(), cached.Err.Error())
}

func TestExecuteBytesResult(t *testing.T) {
	store := NewMemoryCAS()
	_, _, err := Execute(store, "HEX:6162 DUP", nil, interp.Options{})
	require.NoError(t, err)

	cached, hit, err := Execute(store, "HEX:6162 DUP", nil, interp.Options{})
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, vm.BytesValue("ab"), cached.Value)
}

func TestExecuteSkipsClockScripts(t *testing.T) {
	store := NewMemoryCAS()
	opts := interp.Options{Now: func() time.Time { return time.Unix(42, 0) }}

	for i := 0; i < 2; i++ {
		res, hit, err := Execute(store, "EPOCH DUP", nil, opts)
		require.NoError(t, err)
		require.False(t, hit)
		require.Equal(t, vm.NumberValue(42), res.Value)
	}
	require.Zero(t, store.Len())
}
