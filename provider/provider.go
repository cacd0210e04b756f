// Package provider supplies the ContextualData scripts run against, either
// from a TOML context file or from a SQLite item registry.
package provider

import (
	"context"
	"fmt"

	"github.com/zenzo-ecosystem/zvm/interp"
	"github.com/zenzo-ecosystem/zvm/vm"
)

type Provider interface {
	// Snapshot returns the context for evaluating the item thisTx. An empty
	// thisTx leaves This as the provider describes it.
	Snapshot(ctx context.Context, thisTx string) (*interp.ContextualData, error)
}

// Static serves a fixed snapshot, usually one loaded from a file.
type Static struct {
	Data *interp.ContextualData
}

func (s Static) Snapshot(ctx context.Context, thisTx string) (*interp.ContextualData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if thisTx == "" {
		return s.Data, nil
	}
	return selectThis(s.Data, thisTx)
}

func selectThis(data *interp.ContextualData, thisTx string) (*interp.ContextualData, error) {
	item, ok := data.FindItem(thisTx)
	if !ok {
		return nil, fmt.Errorf("%w: %s", vm.ErrItemNotFound, thisTx)
	}
	return data.ForItem(item), nil
}
