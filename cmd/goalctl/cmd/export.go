package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/goaltracker/internal/app"
	"github.com/templui/goaltracker/internal/config"
	"github.com/templui/goaltracker/internal/logger"
)

func ExportCmd() *cobra.Command {
	var (
		userID  string
		archive bool
	)

	export := &cobra.Command{
		Use:   "export",
		Short: "Export a user's goals with their current progress",
		Long:  "Prints the export as JSON. With --archive the export is saved to the configured S3 bucket and a download link is printed instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), "", cfg.AppEnv)

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if archive {
				archived, err := a.ExportService.Archive(cmd.Context(), userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), archived.URL)
				return nil
			}

			goals, err := a.ExportService.Export(userID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(goals)
		},
	}

	export.Flags().StringVar(&userID, "user", "", "user id whose goals to export")
	export.Flags().BoolVar(&archive, "archive", false, "save to the S3 export archive and print a download link")

	return export
}
