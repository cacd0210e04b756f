package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/zenzo-ecosystem/zvm/interp"
)

var (
	thisTx   string
	maxSteps int
)

var execCmd = &cobra.Command{
	Use:   "exec SCRIPT",
	Short: "Execute a script and print its result",
	Args:  cobra.ExactArgs(1),
	RunE:  execCommand,
}

func init() {
	addContextFlags(execCmd)
	execCmd.Flags().StringVar(&thisTx, "this", "", "Evaluate as the item with this tx")
	execCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Fail after this many steps (0 for no limit)")
}

// loadContext resolves the snapshot a single script runs against.
func loadContext(cmd *cobra.Command) (*interp.ContextualData, error) {
	p, closer, err := openProvider()
	if err != nil {
		return nil, err
	}
	defer closer()
	if p == nil {
		if thisTx != "" {
			return nil, errors.New("--this needs --context or --db")
		}
		return nil, nil
	}
	return p.Snapshot(cmd.Context(), thisTx)
}

func execCommand(cmd *cobra.Command, args []string) error {
	data, err := loadContext(cmd)
	if err != nil {
		return err
	}
	res := interp.ExecuteWithOptions(args[0], data, interp.Options{MaxSteps: maxSteps})
	printResult(cmd.OutOrStdout(), res)
	if !res.Success {
		return fmt.Errorf("script failed: %w", res.Err)
	}
	return nil
}

func printResult(w io.Writer, res interp.ExecutionResult) {
	status := color.Green.Sprint("success")
	if !res.Success {
		status = color.Red.Sprint("failure")
	}
	fmt.Fprintf(w, "status:  %s\n", status)
	fmt.Fprintf(w, "value:   %s\n", interp.FormatValue(res.Value))
	fmt.Fprintf(w, "valid:   %t\n", res.Valid())
	fmt.Fprintf(w, "message: %s\n", res.Message)
}
