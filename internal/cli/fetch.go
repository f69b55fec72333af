package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/taxlien/internal/logging"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the current warrant spreadsheet",
	Long: `Fetch scrapes the source page for the first link ending in .xls or .xlsx
and downloads it into the output directory, overwriting any previous copy.

A page without a spreadsheet link is reported and exits with status 0.

When archive.s3_bucket is set in taxlien.yaml the downloaded file is also
uploaded to S3 under <prefix>/<date>/<run id>/<file name>.

Examples:
  # Download into ./data
  taxlien fetch

  # Download somewhere else
  taxlien fetch -o /var/lib/taxlien`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

var fetchFlags sourceFlags

func init() {
	rootCmd.AddCommand(fetchCmd)
	registerSourceFlags(fetchCmd, &fetchFlags)
}

func runFetch(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	runID := newRunID()
	logger := logging.NewConsoleLogger(verbose).WithRunID(runID)

	projectCfg, err := loadProjectConfig(globalFlags.configPath)
	if err != nil {
		return err
	}
	fetchConfig, err := buildFetchConfig(fetchFlags, projectCfg, verbose)
	if err != nil {
		return err
	}
	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, globalFlags.timeout)
	if err != nil {
		return err
	}

	ctx, cancel := newRunContext(timeout, "fetch")
	defer cancel()

	logger.Verbose("Run %s: fetching %s", runID, fetchConfig.PageURL)
	svc, err := newFetchService(ctx, fetchConfig, projectCfg, runID, logger)
	if err != nil {
		return err
	}
	if _, err := svc.Fetch(ctx); err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	return nil
}
