package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/zenzo-ecosystem/zvm/cas"
	"github.com/zenzo-ecosystem/zvm/validate"
)

var (
	numWorkers int
	cacheSize  int
	quietFlag  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the validation script of every item in a snapshot",
	Args:  cobra.NoArgs,
	RunE:  validateCommand,
}

func init() {
	addContextFlags(validateCmd)
	validateCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of validation workers (default: NumCPU)")
	validateCmd.Flags().IntVar(&cacheSize, "cache", 0, "Cache up to N deterministic results in memory (0 disables)")
	validateCmd.Flags().BoolVar(&quietFlag, "quiet", false, "Only print the summary")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	p, closer, err := openProvider()
	if err != nil {
		return err
	}
	if p == nil {
		return errors.New("validate needs --context or --db")
	}
	defer closer()

	data, err := p.Snapshot(cmd.Context(), "")
	if err != nil {
		return err
	}

	v := validate.New(numWorkers)
	if cacheSize > 0 {
		v.Store = cas.NewLRUCache(cas.NewMemoryCAS(), cacheSize)
	}
	if !quietFlag {
		v.Reporter = &validate.ColorReporter{Writer: os.Stderr}
	}

	fmt.Fprintln(os.Stderr, color.Cyan.Sprint("Validating items..."))
	verdicts, err := v.Validate(cmd.Context(), data)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if !quietFlag {
		for _, vd := range verdicts {
			printVerdict(w, vd)
		}
	}
	s := validate.Summarize(verdicts)
	fmt.Fprintf(w, "total %d, valid %d, invalid %d, failed %d, skipped %d\n",
		s.Total, s.Valid, s.Invalid, s.Failed, s.Skipped)
	return nil
}

func printVerdict(w io.Writer, vd validate.Verdict) {
	var status string
	switch {
	case vd.Skipped:
		status = color.Gray.Sprint("SKIPPED")
	case !vd.Result.Success:
		status = color.Red.Sprint("FAILED ")
	case vd.Valid:
		status = color.Green.Sprint("VALID  ")
	default:
		status = color.Yellow.Sprint("INVALID")
	}
	fmt.Fprintf(w, "%s %s %-16s %s\n", status, shortTx(vd.Item.Tx), vd.Item.StrName, vd.Result.Message)
}

func shortTx(tx string) string {
	if len(tx) > 12 {
		return tx[:12]
	}
	return tx
}
