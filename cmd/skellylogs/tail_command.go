package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skellylogs/internal/logs"
	"skellylogs/internal/severity"
)

func newTailCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var level string

	cmd := &cobra.Command{
		Use:   "tail [path]",
		Short: "Print the end of the newest log file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			minLevel := severity.All
			if strings.TrimSpace(level) != "" {
				if minLevel, err = severity.Parse(level); err != nil {
					return fmt.Errorf("--level: %w", err)
				}
			}

			path := cfg.File.Path
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				if path, err = logs.Latest(cfg.File.Dir); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			return logs.Tail(cmd.Context(), path, logs.TailOptions{
				Lines:    lines,
				MinLevel: minLevel,
				Follow:   follow,
			}, func(line string) error {
				_, err := fmt.Fprintln(out, line)
				return err
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are appended")
	cmd.Flags().StringVarP(&level, "level", "l", "", "Hide entries below this severity")
	return cmd
}
