package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"skellylogs/internal/colors"
)

func newColorsCommand() *cobra.Command {
	var count int
	var plain bool

	cmd := &cobra.Command{
		Use:         "colors [id...]",
		Short:       "Preview the terminal color assigned to process or thread ids",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, max(len(args), count))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("parse id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}
			if len(ids) == 0 {
				start := int64(os.Getpid())
				for i := range count {
					ids = append(ids, start+int64(i))
				}
			}

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rgb := colors.ForRGB(colors.Hashed(id))
				row := []string{
					strconv.FormatInt(id, 10),
					fmt.Sprintf("%d,%d,%d", rgb.R, rgb.G, rgb.B),
				}
				if !plain {
					row = append(row, colors.Wrap(rgb.Escape(), "██████"))
				}
				rows = append(rows, row)
			}
			columns := []column{num("ID"), {header: "RGB"}}
			if !plain {
				columns = append(columns, column{header: "Sample"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", columns, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 8, "Number of ids to preview starting at this process id")
	cmd.Flags().BoolVar(&plain, "plain", false, "Omit the colored sample column")
	return cmd
}
