package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scormbridge/internal/config"
	"scormbridge/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var page int
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored content packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if page < 1 {
					page = 1
				}
				packages, total, err := st.List(cmd.Context(), page-1, limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if total == 0 {
					fmt.Fprintln(out, "No packages stored")
					return nil
				}

				rows := make([][]string, 0, len(packages))
				for _, pkg := range packages {
					rows = append(rows, []string{
						strconv.FormatInt(pkg.ID, 10),
						pkg.GUID,
						pkg.Name,
						formatBool(pkg.Active),
						formatBool(pkg.MultiSCO),
						pkg.CreatedAt.Format("2006-01-02 15:04"),
					})
				}

				fmt.Fprintln(out, renderTable(
					[]string{"ID", "GUID", "Name", "Active", "MultiSCO", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "%d of %d package(s), page %d\n", len(packages), total, page)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 15, "Packages per page")
	return cmd
}

func formatBool(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
