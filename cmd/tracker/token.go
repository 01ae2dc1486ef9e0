package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vfg2006/adlibrary-tracker/pkg/middleware"
)

var tokenCommand = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a bearer token for the HTTP API, signed with AUTH_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

var (
	tokenRole string
	tokenTTL  time.Duration
)

func init() {
	tokenCommand.Flags().StringVar(&tokenRole, "role", middleware.RoleAdmin, "Role claim (admin or viewer)")
	tokenCommand.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	rootCmd.AddCommand(tokenCommand)
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenRole != middleware.RoleAdmin && tokenRole != middleware.RoleViewer {
		return fmt.Errorf("unknown role %q", tokenRole)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token, err := middleware.NewToken(cfg.Auth.Secret, args[0], tokenRole, tokenTTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
