// Package validate runs the validation script of every signed item in a
// snapshot, each against a context whose This is that item.
package validate

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/zenzo-ecosystem/zvm/cas"
	"github.com/zenzo-ecosystem/zvm/interp"
)

// Verdict is the outcome for one item. Items without a validation script are
// Skipped and count as valid.
type Verdict struct {
	Item    interp.Item
	Valid   bool
	Skipped bool
	Cached  bool
	Result  interp.ExecutionResult
}

type Summary struct {
	Total     int
	Valid     int
	Invalid   int
	Failed    int
	Skipped   int
	CacheHits int
}

type Validator struct {
	// Store caches deterministic results across runs. Nil disables caching.
	Store    cas.Store
	Options  interp.Options
	Reporter Reporter

	numWorkers int
}

// New creates a validator with numWorkers workers, defaulting to NumCPU.
func New(numWorkers int) *Validator {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Validator{
		Reporter:   &SilentReporter{},
		numWorkers: numWorkers,
	}
}

// Validate returns one verdict per signed item, in item order. It stops
// handing out work once ctx is done and returns ctx's error.
func (v *Validator) Validate(ctx context.Context, data *interp.ContextualData) ([]Verdict, error) {
	start := time.Now()
	verdicts := make([]Verdict, len(data.SignedItems))

	work := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < v.numWorkers; i++ {
		wg.Add(1)
		go v.worker(ctx, i, data, work, verdicts, &wg)
	}

feed:
	for i := range data.SignedItems {
		select {
		case work <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := Summarize(verdicts)
	v.reporter().Printf("Validated %d items in %s: %s valid, %s invalid, %s failed\n",
		s.Total, time.Since(start).Round(time.Millisecond),
		color.Green.Sprint(s.Valid), color.Yellow.Sprint(s.Invalid), color.Red.Sprint(s.Failed))
	return verdicts, nil
}

func (v *Validator) worker(ctx context.Context, workerID int, data *interp.ContextualData, work <-chan int, out []Verdict, wg *sync.WaitGroup) {
	defer wg.Done()
	for i := range work {
		if ctx.Err() != nil {
			continue
		}
		out[i] = v.validateItem(workerID, data, data.SignedItems[i])
	}
}

func (v *Validator) validateItem(workerID int, data *interp.ContextualData, item interp.Item) Verdict {
	script := item.Contracts.Validation
	if script == "" {
		return Verdict{Item: item, Valid: true, Skipped: true}
	}

	local := data.ForItem(item)
	var (
		res    interp.ExecutionResult
		cached bool
	)
	if v.Store != nil {
		var err error
		res, cached, err = cas.Execute(v.Store, script, local, v.Options)
		if err != nil {
			log.Warn().Err(err).Str("tx", item.Tx).Msg("result cache unavailable, executing directly")
			res = interp.ExecuteWithOptions(script, local, v.Options)
		}
	} else {
		res = interp.ExecuteWithOptions(script, local, v.Options)
	}

	log.Debug().
		Int("worker", workerID).
		Str("tx", item.Tx).
		Str("name", item.StrName).
		Bool("success", res.Success).
		Bool("cached", cached).
		Str("value", interp.FormatValue(res.Value)).
		Msg("validated item")

	return Verdict{
		Item:   item,
		Valid:  res.Valid(),
		Cached: cached,
		Result: res,
	}
}

func (v *Validator) reporter() Reporter {
	if v.Reporter == nil {
		return &SilentReporter{}
	}
	return v.Reporter
}

func Summarize(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts)}
	for _, vd := range verdicts {
		if vd.Cached {
			s.CacheHits++
		}
		switch {
		case vd.Skipped:
			s.Skipped++
			s.Valid++
		case !vd.Result.Success:
			s.Failed++
		case vd.Valid:
			s.Valid++
		default:
			s.Invalid++
		}
	}
	return s
}
