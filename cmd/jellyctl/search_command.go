package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"jellyfinapi/jellyfin"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var mediaType string
	var section string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the server libraries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(args[0])
			if query == "" {
				return fmt.Errorf("search query is required")
			}

			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}

			var results []jellyfin.Object
			if section != "" {
				sec, err := srv.Library().Section(cmd.Context(), section)
				if err != nil {
					return err
				}
				results, err = sec.Search(cmd.Context(), jellyfin.FilterOptions{Title: query})
				if err != nil {
					return err
				}
			} else {
				results, err = srv.Search(cmd.Context(), query, mediaType)
				if err != nil {
					return err
				}
			}

			if jsonOutput {
				summaries := make([]itemSummary, 0, len(results))
				for _, obj := range results {
					summaries = append(summaries, summarize(obj))
				}
				return writeJSON(cmd, summaries)
			}

			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results.")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, obj := range results {
				item := jellyfin.ItemOf(obj)
				rows = append(rows, []string{
					strconv.FormatInt(item.RatingKey, 10),
					displayType(item.Type),
					item.Title,
					formatYear(itemYear(obj)),
					yesNo(item.IsPlayed()),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Type", "Title", "Year", "Played"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", "", "Filter by item type (movie, episode, track, ...)")
	cmd.Flags().StringVar(&section, "section", "", "Search one library section by title")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type itemSummary struct {
	RatingKey int64  `json:"ratingKey"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Played    bool   `json:"played"`
}

func summarize(obj jellyfin.Object) itemSummary {
	item := jellyfin.ItemOf(obj)
	return itemSummary{
		RatingKey: item.RatingKey,
		Key:       item.Key,
		Type:      item.Type,
		Title:     item.Title,
		Year:      itemYear(obj),
		Played:    item.IsPlayed(),
	}
}
