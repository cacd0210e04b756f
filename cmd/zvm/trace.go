package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/zenzo-ecosystem/zvm/interp"
	"github.com/zenzo-ecosystem/zvm/vm"
)

var traceCmd = &cobra.Command{
	Use:   "trace SCRIPT",
	Short: "Step through a script, printing the stack after every token",
	Args:  cobra.ExactArgs(1),
	RunE:  traceCommand,
}

func init() {
	addContextFlags(traceCmd)
	traceCmd.Flags().StringVar(&thisTx, "this", "", "Evaluate as the item with this tx")
}

func traceCommand(cmd *cobra.Command, args []string) error {
	data, err := loadContext(cmd)
	if err != nil {
		return err
	}
	return trace(cmd.OutOrStdout(), vm.ParseScript(args[0]), data)
}

func trace(w io.Writer, tokens []string, data *interp.ContextualData) error {
	ec := interp.NewExecutionContext(data, interp.Options{})
	for i, tok := range tokens {
		fmt.Fprintln(w, "*******")
		prettyPrint(w, ec, tok)
		res, err := interp.Step(ec, tok, tokens[i+1:])
		if err != nil {
			fmt.Fprintln(w, color.Red.Sprint("Failed"))
			return fmt.Errorf("operation %q: %w", tok, err)
		}
		if res == interp.DiscontinueStep {
			fmt.Fprintln(w, color.Yellow.Sprint("Discontinued"))
			return nil
		}
	}
	fmt.Fprintln(w, "*******")
	fmt.Fprintf(w, "Stack: %s\n", ec.Stack.String())
	fmt.Fprintln(w, color.Green.Sprint("Finished"))
	return nil
}

func prettyPrint(w io.Writer, ec *interp.ExecutionContext, tok string) {
	fmt.Fprintf(w, "Stack: %s\n", ec.Stack.String())
	fmt.Fprintf(w, "NextOp: %s (%s)\n", tok, vm.Classify(tok).Kind)
}
