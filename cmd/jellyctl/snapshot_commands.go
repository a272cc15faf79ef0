package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jellyfinapi/internal/snapshot"
	"jellyfinapi/jellyfin"
)

func newSnapshotCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Maintain an offline copy of the library listings",
	}

	cmd.AddCommand(newSnapshotSyncCommand(ctx))
	cmd.AddCommand(newSnapshotSectionsCommand(ctx))
	cmd.AddCommand(newSnapshotSearchCommand(ctx))
	return cmd
}

func (c *commandContext) openSnapshot() (*snapshot.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return snapshot.Open(cfg.Paths.SnapshotPath)
}

func newSnapshotSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync all library sections into the snapshot database",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			store, err := ctx.openSnapshot()
			if err != nil {
				return err
			}
			defer store.Close()

			sections, err := srv.Library().Sections(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, section := range sections {
				items, err := section.All(cmd.Context())
				if err != nil {
					return fmt.Errorf("list section %q: %w", section.Title, err)
				}

				records := make([]snapshot.ItemRecord, 0, len(items))
				for _, obj := range items {
					item := jellyfin.ItemOf(obj)
					records = append(records, snapshot.ItemRecord{
						RatingKey: item.RatingKey,
						Key:       item.Key,
						Type:      item.Type,
						Title:     item.Title,
						Year:      itemYear(obj),
						AddedAt:   item.AddedAt,
						ViewCount: item.ViewCount,
					})
				}

				record := snapshot.SectionRecord{
					Key:   section.Key,
					Title: section.Title,
					Type:  section.Type,
				}
				if err := store.ReplaceSection(cmd.Context(), record, records); err != nil {
					return fmt.Errorf("snapshot section %q: %w", section.Title, err)
				}
				fmt.Fprintf(out, "Synced %s (%d items).\n", section.Title, len(records))
			}
			return nil
		},
	}
}

func newSnapshotSectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List synced sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openSnapshot()
			if err != nil {
				return err
			}
			defer store.Close()

			sections, err := store.Sections(cmd.Context())
			if err != nil {
				return err
			}
			if len(sections) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshot yet; run 'jellyctl snapshot sync'.")
				return nil
			}

			rows := make([][]string, 0, len(sections))
			for _, section := range sections {
				rows = append(rows, []string{
					strconv.FormatInt(section.Key, 10),
					section.Title,
					displayType(section.Type),
					formatTime(section.SyncedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Title", "Type", "Synced"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newSnapshotSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the snapshot without contacting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openSnapshot()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.FormatInt(item.RatingKey, 10),
					displayType(item.Type),
					item.Title,
					formatYear(item.Year),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Type", "Title", "Year"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
