package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/taxlien/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the current spreadsheet and load it",
	Long: `Run is fetch followed by load on the downloaded file. The two steps share
nothing but the file path.

If the page has no spreadsheet link, run stops after the fetch step and
exits with status 0 without connecting to the database.

Examples:
  taxlien run -d liens
  taxlien run -o /tmp/taxlien --connection "$DATABASE_URL"`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var runFlags struct {
	source     sourceFlags
	connection connectionFlags
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerSourceFlags(runCmd, &runFlags.source)
	registerConnectionFlags(runCmd, &runFlags.connection)
}

func runRun(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	runID := newRunID()
	logger := logging.NewConsoleLogger(verbose).WithRunID(runID)

	projectCfg, err := loadProjectConfig(globalFlags.configPath)
	if err != nil {
		return err
	}
	fetchConfig, err := buildFetchConfig(runFlags.source, projectCfg, verbose)
	if err != nil {
		return err
	}
	// Resolved up front so a bad connection setup fails before any download.
	loadConfig, err := buildLoadConfig(cmd, "", runFlags.connection, projectCfg, runID, verbose)
	if err != nil {
		return err
	}
	logConnectionVerbose(logger, loadConfig.Connection)

	ctx, cancel := newRunContext(loadConfig.Timeout, "run")
	defer cancel()

	fetchSvc, err := newFetchService(ctx, fetchConfig, projectCfg, runID, logger)
	if err != nil {
		return err
	}
	result, err := fetchSvc.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	if !result.Found {
		return nil
	}

	loadConfig.FilePath = result.Path
	// The run deadline already bounds ctx.
	loadConfig.Timeout = 0
	if _, err := newLoadService(logger).Load(ctx, loadConfig); err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	return nil
}
