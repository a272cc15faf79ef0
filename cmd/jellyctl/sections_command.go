package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSectionsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List library sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.server(cmd.Context())
			if err != nil {
				return err
			}
			sections, err := srv.Library().Sections(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, sections)
			}

			rows := make([][]string, 0, len(sections))
			for _, section := range sections {
				rows = append(rows, []string{
					strconv.FormatInt(section.Key, 10),
					section.Title,
					displayType(section.Type),
					strings.Join(section.Locations, ", "),
					yesNo(section.Refreshing),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Title", "Type", "Locations", "Refreshing"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
