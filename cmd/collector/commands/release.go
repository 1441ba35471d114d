package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/dom/riot-collector/internal/collector"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository/postgres"
	"github.com/dom/riot-collector/internal/service"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	gormLogger "gorm.io/gorm/logger"
)

var releaseVersion string

func init() {
	releaseCmd.Flags().StringVar(&releaseVersion, "version", "", "Release to ingest, e.g. 14.1 or 14.1.1. Defaults to the newest.")
	rootCmd.AddCommand(releaseCmd)
}

var releaseCmd = &cobra.Command{
	Use:   "release [--version <version>]",
	Short: "Ingests every entity kind of a release into the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := postgres.NewConnection(cfg.DatabaseURL, gormLogger.Warn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos := postgres.NewRepositories(db)

		src := newScraper()
		v, err := resolveVersion(ctx, src, releaseVersion)
		if err != nil {
			return err
		}

		pipeline := collector.New(src, repos, cfg.PersistConcurrency, logger)
		release := service.NewReleaseService(src, pipeline, repos.Patch, nil, "", logger)

		report, err := release.ReleaseVersion(ctx, v)
		if report != nil {
			renderReport(report)
		}
		return err
	},
}

func renderReport(report *service.ReleaseReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Release %s", report.Version)
	t.AppendHeader(table.Row{"Kind", "Stored"})

	if report.Skipped {
		t.AppendRow(table.Row{"-", "already ingested"})
	} else {
		for _, kind := range domain.Kinds {
			n, ok := report.Counts[kind]
			if !ok {
				t.AppendRow(table.Row{kind, "not run"})
				continue
			}
			t.AppendRow(table.Row{kind, n})
		}
	}
	t.AppendFooter(table.Row{"Duration", report.Duration.Round(time.Millisecond).String()})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
