package cas

import (
	"github.com/rs/zerolog/log"
	"github.com/zenzo-ecosystem/zvm/interp"
	"github.com/zenzo-ecosystem/zvm/vm"
)

// Cacheable reports whether the result of script under data is fully
// determined by its inputs. EPOCH always reads the clock; CHAINEPOCH only
// does when the item is unconfirmed.
func Cacheable(script string, data *interp.ContextualData) bool {
	for _, tok := range vm.ParseScript(script) {
		op, ok := vm.LookupOpcode(tok)
		if !ok {
			continue
		}
		switch op {
		case vm.EPOCH:
			return false
		case vm.CHAINEPOCH:
			if data == nil || data.This.Timestamp == nil || *data.This.Timestamp == -1 {
				return false
			}
		}
	}
	return true
}

// Execute runs script through the store. The boolean reports a cache hit.
// Scripts that read the clock always run and are never stored.
func Execute(s Store, script string, data *interp.ContextualData, opts interp.Options) (interp.ExecutionResult, bool, error) {
	if !Cacheable(script, data) {
		return interp.ExecuteWithOptions(script, data, opts), false, nil
	}

	key, err := Key(script, data, opts.MaxSteps)
	if err != nil {
		return interp.ExecutionResult{}, false, err
	}
	rec, ok, err := Retrieve[Record](s, key)
	if err != nil {
		return interp.ExecutionResult{}, false, err
	}
	if ok {
		log.Trace().Stringer("key", key).Msg("execution cache hit")
		return rec.Result(), true, nil
	}

	res := interp.ExecuteWithOptions(script, data, opts)
	if err := s.Put(key, NewRecord(res)); err != nil {
		return res, false, err
	}
	return res, false, nil
}
