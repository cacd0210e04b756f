package cas

import (
	"bytes"
	"fmt"
	"io"
)

// Store holds serialized items under a Hash. The execution cache keys
// entries by the hash of the script and context they were computed from.
type Store interface {
	Put(key Hash, item Serde) error
	Has(key Hash) bool
	Len() int
	getValue(h Hash) (bool, []byte, error)
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Retrieve loads the item stored under key. The boolean is false when the
// store has no entry.
func Retrieve[T any, PT interface {
	*T
	Serde
}](s Store, key Hash) (PT, bool, error) {
	has, data, err := s.getValue(key)
	if err != nil {
		return nil, false, err
	}
	if !has {
		return nil, false, nil
	}

	var t T
	item := PT(&t)
	if err := item.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, false, fmt.Errorf("deserializing %s: %w", key, err)
	}
	return item, true, nil
}
