package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lplmaker/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent playlist generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			var gens []history.Generation
			if runID != "" {
				gens, err = store.ListRun(cmd.Context(), runID)
			} else {
				gens, err = store.ListGenerations(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(gens) == 0 {
				fmt.Fprintln(out, "No generations recorded")
			} else {
				fmt.Fprintln(out, renderHistory(gens))
			}
			titles, err := store.CountTitles(cmd.Context())
			if err != nil {
				return err
			}
			if titles > 0 {
				fmt.Fprintf(out, "%d cached title(s)\n", titles)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Number of generations to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show only the generations of one run")
	cmd.AddCommand(newHistoryClearTitlesCommand(ctx))
	return cmd
}

func newHistoryClearTitlesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-titles",
		Short: "Forget titles cached from MAME lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			removed, err := store.ClearTitles(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached title(s)\n", removed)
			return nil
		},
	}
}

func renderHistory(gens []history.Generation) string {
	rows := make([][]string, 0, len(gens))
	for _, g := range gens {
		note := g.ErrorMessage
		if note == "" {
			note = g.OutputPath
		}
		rows = append(rows, []string{
			g.FinishedAt.Local().Format(time.DateTime),
			shortRunID(g.RunID),
			g.Catalog,
			g.State,
			strconv.Itoa(g.Entries),
			strconv.Itoa(g.ArchivesSkipped),
			note,
		})
	}
	return tableView{
		Headers: []string{"Finished", "Run", "Playlist", "State", "Entries", "Skipped", "Detail"},
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		Rows:    rows,
	}.render()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
