package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zenzo-ecosystem/zvm/provider"
)

var importCmd = &cobra.Command{
	Use:   "import CONTEXTFILE",
	Short: "Load the items of a TOML context file into a SQLite registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbPath == "" {
			return errors.New("import needs --db")
		}
		data, err := provider.LoadContextFromFile(args[0])
		if err != nil {
			return err
		}
		reg, err := provider.OpenSQLiteRegistry(dbPath)
		if err != nil {
			return err
		}
		defer reg.Close()
		if err := reg.Import(cmd.Context(), data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d items into %s\n", len(data.SignedItems), dbPath)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&dbPath, "db", "", "SQLite item registry")
}
