package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/goaltracker/internal/config"
	"github.com/templui/goaltracker/internal/service"
)

func TokenCmd() *cobra.Command {
	var (
		userID string
		expiry time.Duration
	)

	token := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for a user id (development use)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			cfg := config.Load()
			if cfg.IsProduction() {
				return errors.New("refusing to sign tokens with APP_ENV=production")
			}
			if expiry == 0 {
				expiry = cfg.JWTExpiry
			}

			signed, err := service.NewTokenService(cfg.JWTSecret, expiry).Generate(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	token.Flags().StringVar(&userID, "user", "", "user id to put in the token")
	token.Flags().DurationVar(&expiry, "expiry", 0, "token lifetime (default JWT_EXPIRY)")

	return token
}
