package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jellyfinapi/jellyfin"
)

func newItemCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Inspect and update library items",
	}

	cmd.AddCommand(newItemShowCommand(ctx))
	cmd.AddCommand(newItemMarkPlayedCommand(ctx))
	cmd.AddCommand(newItemMarkUnplayedCommand(ctx))
	cmd.AddCommand(newItemRateCommand(ctx))
	cmd.AddCommand(newItemHistoryCommand(ctx))
	return cmd
}

func fetchByRatingKey(cmd *cobra.Command, ctx *commandContext, arg string) (jellyfin.Object, error) {
	ratingKey, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rating key %q", arg)
	}
	srv, err := ctx.server(cmd.Context())
	if err != nil {
		return nil, err
	}
	return srv.FetchItem(cmd.Context(), fmt.Sprintf("/library/metadata/%d", ratingKey))
}

func newItemShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <rating-key>",
		Short: "Show one item's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := fetchByRatingKey(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, summarize(obj))
			}

			item := jellyfin.ItemOf(obj)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", displayType(item.Type), item.Title)
			if year := itemYear(obj); year > 0 {
				fmt.Fprintf(out, "Year: %d\n", year)
			}
			if item.Summary != "" {
				fmt.Fprintf(out, "Summary: %s\n", item.Summary)
			}
			fmt.Fprintf(out, "Played: %s", yesNo(item.IsPlayed()))
			if item.ViewCount > 0 {
				fmt.Fprintf(out, " (%d views, last %s)", item.ViewCount, formatTime(item.LastViewedAt))
			}
			fmt.Fprintln(out)
			if item.UserRating > 0 {
				fmt.Fprintf(out, "Rating: %.1f\n", item.UserRating)
			}
			if item.LibrarySectionTitle != "" {
				fmt.Fprintf(out, "Section: %s\n", item.LibrarySectionTitle)
			}
			fmt.Fprintf(out, "Added: %s\n", formatTime(item.AddedAt))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newItemMarkPlayedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-played <rating-key>",
		Short: "Mark an item as watched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := fetchByRatingKey(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			item := jellyfin.ItemOf(obj)
			if err := item.MarkPlayed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as played.\n", item.Title)
			return nil
		},
	}
}

func newItemMarkUnplayedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-unplayed <rating-key>",
		Short: "Clear an item's watched state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := fetchByRatingKey(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			item := jellyfin.ItemOf(obj)
			if err := item.MarkUnplayed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as unplayed.\n", item.Title)
			return nil
		},
	}
}

func newItemRateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <rating-key> <rating>",
		Short: "Set an item's user rating (0-10)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			obj, err := fetchByRatingKey(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			item := jellyfin.ItemOf(obj)
			if err := item.Rate(cmd.Context(), rating); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rated %q %.1f.\n", item.Title, rating)
			return nil
		},
	}
}

func newItemHistoryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [rating-key]",
		Short: "Show watch history, optionally for one item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}

			opts := jellyfin.HistoryOptions{}
			if len(args) == 1 {
				ratingKey, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid rating key %q", args[0])
				}
				opts.ItemRatingKey = ratingKey
			}

			entries, err := srv.History(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(entry.RatingKey, 10),
					displayType(entry.Type),
					entry.Title,
					formatTime(entry.ViewedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Type", "Title", "Viewed"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
