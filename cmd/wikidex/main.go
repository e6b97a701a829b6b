// Package main provides the wikidex CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFormat  string
	seed       uint64
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wikidex",
		Short: "Search SRB2 wiki reference entries",
		Long: `Builds a compressed search index from saved wiki pages and answers queries.

Sources are read from the configured store:
- commons: canned answers and primitive types (YAML or JSON)
- functions: the Lua functions page
- structs: the userdata structure pages

Configuration is read from --config or $WIKIDEX_CONFIG; defaults apply otherwise.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	root.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for picking among equally good records (0 = random)")

	root.AddCommand(getCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(keysCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(dumpCmd())

	return root
}
