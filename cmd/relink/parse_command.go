package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"relink/internal/parse"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var animeHint bool

	cmd := &cobra.Command{
		Use:         "parse NAME",
		Short:       "Show how a torrent or file name would be parsed",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cand, err := parse.New().Parse(args[0], parse.Hint{AnimeDir: animeHint})
			if errors.Is(err, parse.ErrUnparsable) {
				return fmt.Errorf("unparsable: %q", args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Title", cand.Title},
				{"Year", orDash(cand.Year)},
				{"Season", orDash(cand.Season)},
				{"Episode", orDash(cand.Episode)},
				{"Kind", string(cand.KindGuess)},
				{"Anime", strconv.FormatBool(cand.Anime)},
				{"Confidence", strconv.FormatFloat(cand.Confidence, 'f', 2, 64)},
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&animeHint, "anime", false, "Treat the name as coming from an anime directory")
	return cmd
}

func orDash(value int) string {
	if value == 0 {
		return "-"
	}
	return strconv.Itoa(value)
}
