package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scormbridge/internal/config"
	"scormbridge/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|guid>",
		Short: "Display a stored package and its item tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				detail, err := st.ResolveDetail(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Package %q\n", detail.Name)
				fmt.Fprintf(out, "  ID:       %d\n", detail.ID)
				fmt.Fprintf(out, "  GUID:     %s\n", detail.GUID)
				fmt.Fprintf(out, "  Active:   %s\n", formatBool(detail.Active))
				fmt.Fprintf(out, "  MultiSCO: %s\n", formatBool(detail.MultiSCO))
				fmt.Fprintf(out, "  Created:  %s\n", detail.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  Content:  %s\n", cfg.PackageDir(detail.GUID))

				if len(detail.Items) == 0 {
					fmt.Fprintln(out, "No items")
					return nil
				}

				rows := make([][]string, 0, len(detail.Items))
				for i, item := range detail.Items {
					launch := "-"
					if item.Resource != nil {
						launch = item.Resource.Href
					}
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						item.Title,
						item.GUID,
						strconv.FormatFloat(item.MasteryScore, 'f', -1, 64),
						launch,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "GUID", "Mastery", "Launch"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
