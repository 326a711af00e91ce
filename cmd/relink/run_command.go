package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"relink/internal/resolve/tmdb"
	"relink/internal/store"
	"relink/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var refresh bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile the library symlinks against the torrent tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}

			client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
				tmdb.WithRetryAttempts(cfg.Resolver.RetryAttempts))
			if err != nil {
				return fmt.Errorf("tmdb client: %w", err)
			}

			st, err := store.Open(cfg.Paths.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			runner, err := workflow.NewRunner(cfg, st, client, logger)
			if err != nil {
				return err
			}

			result, err := runner.Run(cmd.Context(), workflow.RunOptions{
				DryRun:  dryRun,
				Refresh: refresh,
			})
			if err != nil {
				return err
			}

			printRunResult(cmd, result, dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the changeset without touching the filesystem")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop the identity cache and re-resolve everything")
	return cmd
}

func printRunResult(cmd *cobra.Command, result *workflow.Result, dryRun bool) {
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintln(out, "Dry run; no changes were applied.")
	}

	rows := [][]string{
		{"Scanned files", strconv.Itoa(result.Files)},
		{"Create", strconv.Itoa(len(result.Changeset.Create))},
		{"Relink", strconv.Itoa(len(result.Changeset.Relink))},
		{"Remove", strconv.Itoa(len(result.Changeset.Remove))},
		{"Unchanged", strconv.Itoa(result.Changeset.Unchanged)},
		{"Applied", strconv.Itoa(len(result.Report.Applied))},
		{"Skipped", strconv.Itoa(len(result.Report.Skipped))},
		{"Failed", strconv.Itoa(len(result.Report.Failed))},
	}
	for reason, count := range result.Unresolved {
		rows = append(rows, []string{"Unresolved (" + reason + ")", strconv.Itoa(count)})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Run " + result.RunID, "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight}))

	for _, conflict := range result.Changeset.Conflicts {
		fmt.Fprintf(out, "conflict: %s claimed by %d sources\n", conflict.LibraryPath, len(conflict.SourcePaths))
	}
	for _, outcome := range result.Report.Skipped {
		fmt.Fprintf(out, "skipped %s: %v\n", outcome.LibraryPath, outcome.Err)
	}
	for _, outcome := range result.Report.Failed {
		fmt.Fprintf(out, "failed %s: %v\n", outcome.LibraryPath, outcome.Err)
	}
	for _, skip := range result.Skipped {
		fmt.Fprintf(out, "ignored %s (%s)\n", skip.Path, skip.Reason)
	}
}
