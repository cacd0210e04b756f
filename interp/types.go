package interp

import (
	"fmt"

	"github.com/zenzo-ecosystem/zvm/vm"
)

// ContextualData is the chain and item snapshot a script may consult. It is
// supplied whole by the caller before execution and never modified.
type ContextualData struct {
	BestBlock   *int64   `toml:"best_block" cbor:"1,keyasint,omitempty"`
	SignedItems []Item   `toml:"items" cbor:"2,keyasint,omitempty"`
	This        ThisItem `toml:"this" cbor:"3,keyasint"`
}

// Item is a ledger-tracked token carrying an optional validation script.
type Item struct {
	Tx        string    `toml:"tx" cbor:"1,keyasint"`
	StrName   string    `toml:"name" cbor:"2,keyasint"`
	Timestamp *int64    `toml:"timestamp" cbor:"3,keyasint,omitempty"`
	Contracts Contracts `toml:"contracts" cbor:"4,keyasint"`
}

type Contracts struct {
	Validation string `toml:"validation" cbor:"1,keyasint,omitempty"`
}

// ThisItem identifies the item whose script is being evaluated. A nil or -1
// Timestamp means the item is not yet confirmed in a block.
type ThisItem struct {
	Timestamp *int64 `toml:"timestamp" cbor:"1,keyasint,omitempty"`
	StrTx     string `toml:"tx" cbor:"2,keyasint"`
}

// TxLength is the length of every item transaction id.
const TxLength = 64

func Int64(v int64) *int64 {
	return &v
}

// ForItem returns a copy of d whose This points at item. SignedItems is
// shared, not copied.
func (d *ContextualData) ForItem(item Item) *ContextualData {
	out := &ContextualData{
		BestBlock:   d.BestBlock,
		SignedItems: d.SignedItems,
		This: ThisItem{
			Timestamp: item.Timestamp,
			StrTx:     item.Tx,
		},
	}
	return out
}

// FindItem returns the first item with the given transaction id.
func (d *ContextualData) FindItem(tx string) (Item, bool) {
	for _, it := range d.SignedItems {
		if it.Tx == tx {
			return it, true
		}
	}
	return Item{}, false
}

func (it Item) Validate() error {
	if len(it.Tx) != TxLength {
		return fmt.Errorf("%w: item %q has a %d character tx, want %d", vm.ErrMalformed, it.StrName, len(it.Tx), TxLength)
	}
	return nil
}

// ExecutionResult is what callers receive from Execute. On failure Err holds
// the error detail; Message is for diagnostics only.
type ExecutionResult struct {
	Value   vm.Value
	Err     error
	Message string
	Success bool
}

// Valid reports whether the script succeeded with a truthy result.
func (r ExecutionResult) Valid() bool {
	return r.Success && vm.Truthy(r.Value)
}
