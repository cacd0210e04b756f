package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zenzo-ecosystem/zvm/provider"
)

var (
	logLevel    string
	contextFile string
	dbPath      string
)

var rootCmd = &cobra.Command{
	Use:   "zvm",
	Short: "Run and inspect ZENZO Forge item scripts",
	Long: `zvm executes the stack scripts attached to ZENZO Forge items, checks
them against the ZFI standards and validates whole item snapshots.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up zerolog
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		// Parse and set log level
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", logLevel)
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (trace, debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(conformsCmd)
	rootCmd.AddCommand(contextualCmd)
	rootCmd.AddCommand(opcodesCmd)
	rootCmd.AddCommand(standardsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
}

// addContextFlags registers the flags that choose where ContextualData
// comes from.
func addContextFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&contextFile, "context", "", "TOML context file")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite item registry")
}

// openProvider returns nil when neither --context nor --db was given.
func openProvider() (provider.Provider, func(), error) {
	switch {
	case contextFile != "" && dbPath != "":
		return nil, nil, errors.New("--context and --db are mutually exclusive")
	case contextFile != "":
		data, err := provider.LoadContextFromFile(contextFile)
		if err != nil {
			return nil, nil, err
		}
		return provider.Static{Data: data}, func() {}, nil
	case dbPath != "":
		reg, err := provider.OpenSQLiteRegistry(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return reg, func() { reg.Close() }, nil
	}
	return nil, func() {}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
