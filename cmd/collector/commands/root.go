package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dom/riot-collector/internal/config"
	"github.com/dom/riot-collector/internal/logging"
	"github.com/dom/riot-collector/internal/scraper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "collector",
	Short:         "collector ingests League of Legends game data from the upstream sources.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(cfg.Environment, level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Overrides LOG_LEVEL.")
}

// ExecuteContext runs the command line and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newScraper() *scraper.Scraper {
	client := scraper.NewClient(cfg.HTTP, logger)
	return scraper.New(client, scraper.NewEndpoints(cfg.Sources), logger)
}

// resolveVersion parses raw, or discovers the newest release when raw is
// empty.
func resolveVersion(ctx context.Context, src *scraper.Scraper, raw string) (scraper.Version, error) {
	if raw != "" {
		return scraper.ParseVersion(raw)
	}
	if cfg.DataDragonVersion != "" {
		return scraper.ParseVersion(cfg.DataDragonVersion)
	}
	return src.LatestVersion(ctx)
}
