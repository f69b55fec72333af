package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/taxlien/internal/archive"
	"github.com/vvka-141/taxlien/internal/config"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// sourceFlags holds the fetch-related flag values.
type sourceFlags struct {
	pageURL     string
	baseURL     string
	outputDir   string
	userAgent   string
	httpTimeout time.Duration
}

func registerSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.pageURL, "page-url", "",
		"Page scraped for the spreadsheet link\n"+
			"(default: the Florida DOR delinquent taxpayer page, or source.page_url)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "",
		"Base URL for relative links (default: scheme and host of the page URL)")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "",
		"Directory the spreadsheet is written to (default: "+taxlien.DefaultOutputDir+")")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "",
		"User-Agent header sent with both requests")
	cmd.Flags().DurationVar(&f.httpTimeout, "http-timeout", 0,
		"Per-request HTTP timeout (default: "+taxlien.DefaultHTTPTimeout.String()+")")
}

// loadProjectConfig loads godotenv and project configuration.
// Without --config, a missing ./taxlien.yaml is not an error and yields nil.
func loadProjectConfig(configPath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if configPath != "" {
		projectCfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w: %w", configPath, taxlien.ErrInvalidConfig, err)
		}
		return projectCfg, nil
	}

	projectCfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", config.ConfigFileName, taxlien.ErrInvalidConfig, err)
	}
	return projectCfg, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring taxlien.yaml if the flag wasn't set.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if projectCfg != nil && !cmd.Flags().Changed("timeout") {
		parsed, err := projectCfg.RunTimeout()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", taxlien.ErrInvalidConfig, err)
		}
		if parsed > 0 {
			return parsed, nil
		}
	}
	return flagTimeout, nil
}

// buildFetchConfig layers defaults, taxlien.yaml and flags, in increasing precedence.
func buildFetchConfig(flags sourceFlags, projectCfg *config.ProjectConfig, verbose bool) (*taxlien.FetchConfig, error) {
	cfg := &taxlien.FetchConfig{
		PageURL:     taxlien.DefaultPageURL,
		OutputDir:   taxlien.DefaultOutputDir,
		UserAgent:   taxlien.DefaultUserAgent,
		HTTPTimeout: taxlien.DefaultHTTPTimeout,
		Verbose:     verbose,
	}

	if projectCfg != nil {
		src := projectCfg.Source
		cfg.PageURL = firstSet(src.PageURL, cfg.PageURL)
		cfg.BaseURL = firstSet(src.BaseURL, cfg.BaseURL)
		cfg.OutputDir = firstSet(src.OutputDir, cfg.OutputDir)
		cfg.UserAgent = firstSet(src.UserAgent, cfg.UserAgent)
		d, err := projectCfg.HTTPTimeout()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", taxlien.ErrInvalidConfig, err)
		}
		if d > 0 {
			cfg.HTTPTimeout = d
		}
	}

	cfg.PageURL = firstSet(flags.pageURL, cfg.PageURL)
	cfg.BaseURL = firstSet(flags.baseURL, cfg.BaseURL)
	cfg.OutputDir = firstSet(flags.outputDir, cfg.OutputDir)
	cfg.UserAgent = firstSet(flags.userAgent, cfg.UserAgent)
	if flags.httpTimeout > 0 {
		cfg.HTTPTimeout = flags.httpTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// archiveConfig returns the archive settings and whether archiving is on.
func archiveConfig(projectCfg *config.ProjectConfig) (archive.Config, bool) {
	if projectCfg == nil || !projectCfg.Archive.Enabled() {
		return archive.Config{}, false
	}
	a := projectCfg.Archive
	return archive.Config{
		Bucket:    a.S3Bucket,
		Region:    firstSet(a.S3Region, os.Getenv("AWS_REGION")),
		Endpoint:  a.S3Endpoint,
		Prefix:    a.S3Prefix,
		PathStyle: a.S3PathStyle,
	}, true
}

// newRunContext bounds the run by timeout and cancels it on SIGINT or SIGTERM.
func newRunContext(timeout time.Duration, what string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling %s...\n", what)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func newRunID() string {
	return uuid.NewString()
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
