package main

import (
	"encoding/json"
	"fmt"

	"github.com/Conceptual-Machines/melody-api/internal/config"
	"github.com/Conceptual-Machines/melody-api/internal/database"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "ingest <tab-file...>",
		Short: "Load scraped tab files into the song database",
		Long: `Processes every tab in the given YAML or JSON files and replaces the
stored chord sections of each song. Songs that are not in the database yet
are created. One failing tab does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			tabs, err := loadTabs(args)
			if err != nil {
				return err
			}
			for _, tab := range tabs {
				if err := validateTab(tab); err != nil {
					return err
				}
			}

			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			tabService := services.NewTabService(services.NewChordStore(db), nil)
			tabService.CreateMissingSongs = true

			report := services.NewBatchIngester(tabService, cfg.IngestConcurrency, nil).Ingest(cmd.Context(), tabs)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d tabs failed", report.Failed, report.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.DatabaseURL, "database", cfg.DatabaseURL, "database URL (defaults to DATABASE_URL; sqlite://<path> for a local file)")
	cmd.Flags().IntVarP(&cfg.IngestConcurrency, "concurrency", "j", cfg.IngestConcurrency, "tabs processed in parallel")
	return cmd
}
