package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireSpreadsheetPath validates that exactly one spreadsheet path argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireSpreadsheetPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <spreadsheet>

Usage: %s

Example:
  %s data/delinquent_taxpayers.xlsx -d liens

Use 'taxlien fetch' to download the current spreadsheet.`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
