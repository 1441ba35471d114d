package commands

import (
	"fmt"
	"time"

	"github.com/dom/riot-collector/internal/service"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Subject recorded in the token.")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime. Zero issues a token that never expires.")
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token [--subject <name>] [--ttl <duration>]",
	Short: "Prints an admin bearer token for the write and job routes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := service.NewAuthService(cfg.AdminJWTSecret).IssueAdminToken(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}
