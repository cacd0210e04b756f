package cas

import (
	"fmt"

	"github.com/dgryski/go-farm"
	"github.com/fxamacker/cbor/v2"
	"github.com/zenzo-ecosystem/zvm/interp"
)

var keyEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cas: failed to create CBOR enc mode: %v", err))
	}
	keyEncMode = em
}

type keyInput struct {
	Script   string                 `cbor:"1,keyasint"`
	Data     *interp.ContextualData `cbor:"2,keyasint,omitempty"`
	MaxSteps int                    `cbor:"3,keyasint,omitempty"`
}

// Key hashes a script together with the context and step budget it runs
// under. Equal inputs always produce the same key.
func Key(script string, data *interp.ContextualData, maxSteps int) (Hash, error) {
	b, err := keyEncMode.Marshal(keyInput{Script: script, Data: data, MaxSteps: maxSteps})
	if err != nil {
		return 0, fmt.Errorf("encoding cache key: %w", err)
	}
	return Hash(farm.Hash64(b)), nil
}
