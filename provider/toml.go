package provider

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/zenzo-ecosystem/zvm/interp"
	"github.com/zenzo-ecosystem/zvm/vm"
)

func parseContext(f io.Reader) (*interp.ContextualData, error) {
	var out interp.ContextualData
	md, err := toml.NewDecoder(f).Decode(&out)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", vm.ErrMalformed, undecoded[0].String())
	}
	for _, it := range out.SignedItems {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}
	if out.This.StrTx != "" && len(out.This.StrTx) != interp.TxLength {
		return nil, fmt.Errorf("%w: this.tx has %d characters, want %d", vm.ErrMalformed, len(out.This.StrTx), interp.TxLength)
	}
	return &out, nil
}

func LoadContextFromFile(path string) (*interp.ContextualData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := parseContext(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
