package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scormbridge/internal/config"
	"scormbridge/internal/connector"
	"scormbridge/internal/store"
)

func newConnectorCommand(ctx *commandContext) *cobra.Command {
	var customer string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "connector <id|guid>",
		Short: "Synthesize a connector package for a stored package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				synth := connector.NewSynthesizer(cfg, st, nil)
				conn, err := synth.Build(cmd.Context(), args[0], customer)
				if err != nil {
					return err
				}

				dir := outputDir
				if dir == "" {
					dir = "."
				}
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return err
				}
				target := filepath.Join(expanded, conn.Filename)
				if err := os.WriteFile(target, conn.Data, 0o644); err != nil {
					return fmt.Errorf("write connector: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", target, len(conn.Data))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer identifier substituted into the connector")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the connector into")
	return cmd
}
