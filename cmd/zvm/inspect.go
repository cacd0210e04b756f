package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/zenzo-ecosystem/zvm/vm"
)

var standardID string

var parseCmd = &cobra.Command{
	Use:   "parse SCRIPT",
	Short: "Print each token of a script and how it is classified",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for i, text := range vm.ParseScript(args[0]) {
			tok := vm.Classify(text)
			var detail string
			switch tok.Kind {
			case vm.TokenOpcode:
				detail = tok.Op.String()
			case vm.TokenNumber:
				detail = tok.Num.String()
			case vm.TokenBytes:
				detail = tok.Bytes.String()
			default:
				detail = color.Red.Sprint(tok.Err)
			}
			fmt.Fprintf(w, "%3d  %-8s %-20q %s\n", i, tok.Kind, text, detail)
		}
	},
}

var conformsCmd = &cobra.Command{
	Use:   "conforms SCRIPT",
	Short: "Check whether a script follows a ZFI standard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := vm.LookupStandard(standardID); !ok {
			return fmt.Errorf("unknown standard %q", standardID)
		}
		if vm.ConformsToStandardID(args[0], standardID) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.Green.Sprint("conforms to"), standardID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.Red.Sprint("does not conform to"), standardID)
		}
		return nil
	},
}

var contextualCmd = &cobra.Command{
	Use:   "contextual SCRIPT",
	Short: "List the contextual opcodes a script uses",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		ops := vm.ContainsContextualCodes(args[0])
		if ops == nil {
			fmt.Fprintln(w, "none")
		}
		for _, op := range ops {
			fmt.Fprintln(w, op)
		}
		fmt.Fprintf(w, "cost: %d\n", vm.ScriptCost(args[0]))
	},
}

var opcodesCmd = &cobra.Command{
	Use:   "opcodes",
	Short: "List every opcode",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, info := range vm.Opcodes() {
			name := fmt.Sprintf("%-12s", info.Name)
			if info.Contextual {
				name = color.Cyan.Sprint(name)
			}
			fmt.Fprintf(w, "%s %-11s %s\n", name, info.Category, info.Description)
		}
	},
}

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "List the known ZFI standards",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		all := vm.Standards()
		ids := make([]string, 0, len(all))
		for id := range all {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			s := all[id]
			fmt.Fprintf(w, "%s  %s\n", color.Bold.Sprint(s.ID), s.Title)
			fmt.Fprintf(w, "    %s\n", strings.TrimSpace(s.Description))
			fmt.Fprintf(w, "    %s\n", s.Validation)
		}
	},
}

func init() {
	conformsCmd.Flags().StringVar(&standardID, "standard", vm.ZFI1, "Standard to check against")
}
