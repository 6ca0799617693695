package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scormbridge/internal/config"
	"scormbridge/internal/ingest"
	"scormbridge/internal/store"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <package.zip>",
		Short: "Ingest a SCORM content package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read package: %w", err)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				svc := ingest.NewService(cfg, st, nil)
				result, err := svc.Ingest(cmd.Context(), ingest.Upload{
					Filename:  filepath.Base(path),
					MediaType: "application/zip",
					Data:      data,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Ingested %q\n", result.Title)
				fmt.Fprintf(out, "  ID:       %d\n", result.StorageID)
				fmt.Fprintf(out, "  GUID:     %s\n", result.GUID)
				fmt.Fprintf(out, "  Items:    %d\n", result.Items)
				fmt.Fprintf(out, "  MultiSCO: %t\n", result.MultiSCO)
				return nil
			})
		},
	}
}
