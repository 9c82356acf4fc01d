package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"skellylogs/internal/severity"
)

func newLevelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "levels",
		Short:       "List registered severities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			levels := severity.Levels()
			rows := make([][]string, 0, len(levels))
			for _, lvl := range levels {
				rows = append(rows, []string{
					strconv.Itoa(int(lvl)),
					lvl.String(),
					lvl.Slog().String(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				"",
				[]column{num("Rank"), {header: "Name"}, {header: "slog"}},
				rows,
			))
			return nil
		},
	}
}
