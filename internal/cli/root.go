package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

var rootCmd = &cobra.Command{
	Use:   "taxlien",
	Short: "Load delinquent tax warrants into PostgreSQL",
	Long: `taxlien scrapes the Florida Department of Revenue delinquent taxpayer page
for the published warrant spreadsheet, downloads it, and loads the cleaned rows
into the properties and tax_liens tables of a PostgreSQL database.

Every load is idempotent: rows that already exist are left untouched.

Exit Codes:
  0  - Success (also when the page has no spreadsheet link)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  13 - SQL execution failed during a load stage
  15 - Page or spreadsheet download failed
  16 - Spreadsheet layout not recognized`,
	SilenceUsage: true,
}

var globalFlags struct {
	configPath string
	timeout    time.Duration
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// Frees -h for --host.
	rootCmd.PersistentFlags().Bool("help", false, "Help for taxlien")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "",
		"Path to taxlien.yaml (default: ./taxlien.yaml when present)")
	rootCmd.PersistentFlags().DurationVar(&globalFlags.timeout, "timeout", taxlien.DefaultRunTimeout,
		"Catastrophic failure protection timeout for the whole run\n"+
			"Examples: 30s, 5m, 1h30m")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
