package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"relink/internal/media"
	"relink/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the store knows about the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Paths.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			summary, err := st.Summarize(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Database", st.Path()},
				{"Cached identities", strconv.Itoa(summary.Identities)},
				{"Tracked files", strconv.Itoa(summary.Files)},
				{"Unresolved files", strconv.Itoa(summary.UnresolvedFiles)},
			}
			for _, category := range media.Categories {
				rows = append(rows, []string{
					"Links: " + string(category),
					strconv.Itoa(summary.LinksByCategory[category]),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Item", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}
