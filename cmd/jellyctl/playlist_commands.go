package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jellyfinapi/jellyfin"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Manage server playlists",
	}

	cmd.AddCommand(newPlaylistListCommand(ctx))
	cmd.AddCommand(newPlaylistItemsCommand(ctx))
	cmd.AddCommand(newPlaylistCreateCommand(ctx))
	cmd.AddCommand(newPlaylistDeleteCommand(ctx))
	return cmd
}

func newPlaylistListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			playlists, err := srv.Playlists(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, playlists)
			}

			rows := make([][]string, 0, len(playlists))
			for _, playlist := range playlists {
				rows = append(rows, []string{
					strconv.FormatInt(playlist.RatingKey, 10),
					playlist.Title,
					playlist.PlaylistType,
					strconv.Itoa(playlist.LeafCount),
					formatDuration(playlist.Duration),
					yesNo(playlist.Smart),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Title", "Type", "Items", "Duration", "Smart"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newPlaylistItemsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "items <title>",
		Short: "List the items of one playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			playlist, err := srv.Playlist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			items, err := playlist.Items(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				summaries := make([]itemSummary, 0, len(items))
				for _, obj := range items {
					summaries = append(summaries, summarize(obj))
				}
				return writeJSON(cmd, summaries)
			}

			rows := make([][]string, 0, len(items))
			for i, obj := range items {
				item := jellyfin.ItemOf(obj)
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					strconv.FormatInt(item.RatingKey, 10),
					displayType(item.Type),
					item.Title,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Key", "Type", "Title"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newPlaylistCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <title> <rating-key>...",
		Short: "Create a playlist from library items",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}

			items := make([]jellyfin.Object, 0, len(args)-1)
			for _, arg := range args[1:] {
				ratingKey, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid rating key %q", arg)
				}
				obj, err := srv.FetchItem(cmd.Context(), fmt.Sprintf("/library/metadata/%d", ratingKey))
				if err != nil {
					return err
				}
				items = append(items, obj)
			}

			playlist, err := srv.CreatePlaylist(cmd.Context(), args[0], items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %q with %d item(s).\n", playlist.Title, len(items))
			return nil
		},
	}
}

func newPlaylistDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			playlist, err := srv.Playlist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := playlist.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted playlist %q.\n", playlist.Title)
			return nil
		},
	}
}
