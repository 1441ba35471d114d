package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dom/riot-collector/internal/collector"
	"github.com/spf13/cobra"
)

var previewVersion string

func init() {
	championCmd.Flags().StringVar(&previewVersion, "version", "", "Release to read. Defaults to the newest.")
	patchNotesCmd.Flags().StringVar(&previewVersion, "version", "", "Release to read. Defaults to the newest.")
	rootCmd.AddCommand(championCmd, patchNotesCmd)
}

var championCmd = &cobra.Command{
	Use:   "champion <name> [--version <version>]",
	Short: "Scrapes one champion and prints the merged record without storing it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src := newScraper()

		v, err := resolveVersion(ctx, src, previewVersion)
		if err != nil {
			return err
		}

		champion, err := collector.New(src, nil, 1, logger).Preview(ctx, v, args[0])
		if err != nil {
			return err
		}
		return printJSON(champion)
	},
}

var patchNotesCmd = &cobra.Command{
	Use:   "patch-notes [--version <version>]",
	Short: "Scrapes the patch notes of a release and prints them without storing them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src := newScraper()

		v, err := resolveVersion(ctx, src, previewVersion)
		if err != nil {
			return err
		}

		patch, err := src.PatchNotes(ctx, v)
		if err != nil {
			return fmt.Errorf("patch notes %s: %w", v, err)
		}
		return printJSON(patch)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
