package interp

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zenzo-ecosystem/zvm/vm"
)

const (
	msgSuccess      = "Script executed successfully"
	msgDiscontinued = "Script executed successfully, discontinued by condition"
)

// Options tune a single execution. The zero value runs against the wall
// clock with no step budget.
type Options struct {
	Now      func() time.Time
	MaxSteps int
}

// Execute runs script against data on a private stack.
func Execute(script string, data *ContextualData) ExecutionResult {
	return ExecuteWithOptions(script, data, Options{})
}

func ExecuteWithOptions(script string, data *ContextualData, opts Options) ExecutionResult {
	if script == "" {
		return failure(fmt.Errorf("%w: script is empty", vm.ErrMalformed), "Script is an empty string")
	}
	tokens := vm.ParseScript(script)
	if len(tokens) <= 1 {
		return failure(fmt.Errorf("%w: too few parameters", vm.ErrMalformed),
			"Script has too few params, unable to execute a meaningful operation")
	}

	ec := NewExecutionContext(data, opts)
	defer ec.Stack.Clear()

	log.Debug().Str("exec", ec.ID.String()).Int("tokens", len(tokens)).Msg("Execute: starting")
	res := RunToEnd(ec, tokens, opts.MaxSteps)
	log.Debug().
		Str("exec", ec.ID.String()).
		Bool("success", res.Success).
		Str("value", FormatValue(res.Value)).
		Str("message", res.Message).
		Msg("Execute: finished")
	return res
}

// RunToEnd drives tokens through Step in order until the script ends, a step
// fails, or CONTINUETRUE discontinues it.
func RunToEnd(ec *ExecutionContext, tokens []string, maxSteps int) ExecutionResult {
	for i, tok := range tokens {
		if maxSteps > 0 && ec.steps >= maxSteps {
			err := fmt.Errorf("%w: %d steps", vm.ErrStepLimit, maxSteps)
			return failure(fmt.Errorf("operation %q: %w", tok, err), stepFailureMessage(tok))
		}
		ec.steps++
		res, err := Step(ec, tok, tokens[i+1:])
		if err != nil {
			ec.Stack.Clear()
			return failure(fmt.Errorf("operation %q: %w", tok, err), stepFailureMessage(tok))
		}
		if res == DiscontinueStep {
			ec.Stack.Clear()
			return ExecutionResult{
				Value:   vm.NumTrue,
				Message: msgDiscontinued,
				Success: true,
			}
		}
	}
	val := ec.Stack.At(0)
	ec.Stack.Clear()
	return ExecutionResult{
		Value:   val,
		Message: msgSuccess,
		Success: true,
	}
}

func stepFailureMessage(tok string) string {
	return fmt.Sprintf("Stack processor failure at operation %q", tok)
}

func failure(err error, msg string) ExecutionResult {
	return ExecutionResult{
		Err:     err,
		Message: msg,
	}
}
