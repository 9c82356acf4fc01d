package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skellylogs/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if _, err := os.Stat(ctx.configPath); err != nil {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if raw {
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			filePath := cfg.File.Path
			if filePath == "" {
				filePath = filepath.Join(cfg.File.Dir, "log_<timestamp>.log")
			}
			rows := [][]string{
				{"logging.level", cfg.Logging.Level},
				{"logging.console_color", cfg.Logging.ConsoleColor},
				{"logging.quiet_noisy_sources", yesNo(cfg.Logging.QuietNoisySources)},
				{"file.path", filePath},
				{"file.process_lock", yesNo(cfg.File.ProcessLock)},
				{"file.retention_days", strconv.Itoa(cfg.File.RetentionDays)},
				{"queue.enabled", yesNo(cfg.Queue.Enabled)},
				{"queue.capacity", strconv.Itoa(cfg.Queue.Capacity)},
			}
			title := "Effective configuration"
			if ctx.configPath != "" {
				title += " (" + ctx.configPath + ")"
			}
			fmt.Fprintln(out, renderTable(title, cols("Setting", "Value"), rows))

			floors, err := cfg.SourceFloors()
			if err != nil {
				return err
			}
			if len(floors) == 0 {
				return nil
			}
			names := make([]string, 0, len(floors))
			for name := range floors {
				names = append(names, name)
			}
			sort.Strings(names)
			sourceRows := make([][]string, 0, len(names))
			for _, name := range names {
				sourceRows = append(sourceRows, []string{name, floors[name].String()})
			}
			fmt.Fprintln(out, renderTable("Source floors", cols("Source", "Floor"), sourceRows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "toml", false, "Print the configuration as TOML")
	return cmd
}
