package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newClientsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List and control connected players",
	}

	cmd.AddCommand(newClientsListCommand(ctx))
	cmd.AddCommand(newClientsPlayCommand(ctx))
	cmd.AddCommand(newClientsControlCommand(ctx, "pause", "Pause playback"))
	cmd.AddCommand(newClientsControlCommand(ctx, "resume", "Resume playback"))
	cmd.AddCommand(newClientsControlCommand(ctx, "stop", "Stop playback"))
	return cmd
}

func newClientsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connected players",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			players, err := srv.Clients(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, players)
			}
			if len(players) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No connected players.")
				return nil
			}

			rows := make([][]string, 0, len(players))
			for _, player := range players {
				rows = append(rows, []string{
					player.Name,
					player.Product,
					player.Platform,
					fmt.Sprintf("%s:%d", player.Address, player.Port),
					strings.Join(player.ProtocolCapabilities, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Product", "Platform", "Address", "Capabilities"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newClientsPlayCommand(ctx *commandContext) *cobra.Command {
	var offsetSeconds int
	var direct bool

	cmd := &cobra.Command{
		Use:   "play <client-name> <rating-key>",
		Short: "Start playback of an item on a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			player, err := srv.Client(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			player.ProxyThroughServer(!direct)

			ratingKey, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rating key %q", args[1])
			}
			obj, err := srv.FetchItem(cmd.Context(), fmt.Sprintf("/library/metadata/%d", ratingKey))
			if err != nil {
				return err
			}

			offset := time.Duration(offsetSeconds) * time.Second
			if err := player.PlayMedia(cmd.Context(), obj, offset); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Playing on %s.\n", player.Name)
			return nil
		},
	}

	cmd.Flags().IntVar(&offsetSeconds, "offset", 0, "Start offset in seconds")
	cmd.Flags().BoolVar(&direct, "direct", false, "Talk to the player directly instead of through the server")
	return cmd
}

func newClientsControlCommand(ctx *commandContext, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <client-name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			player, err := srv.Client(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			player.ProxyThroughServer(true)

			switch action {
			case "pause":
				err = player.Pause(cmd.Context())
			case "resume":
				err = player.Play(cmd.Context())
			case "stop":
				err = player.Stop(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s to %s.\n", action, player.Name)
			return nil
		},
	}
}
