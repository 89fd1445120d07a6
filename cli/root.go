// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli provides the pqedit command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pqedit/config"
	"pqedit/windows"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// runWindow opens the desktop window. Replaced in tests.
var runWindow = windows.Run

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "pqedit [FILE]",
		Short: "View, edit and repair Parquet files",
		Long: `pqedit opens a Parquet file in an editable grid. Files that the standard
reader rejects are recovered from their raw row groups where possible.

Without a subcommand pqedit starts the desktop window, optionally opening FILE.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runWindow(cmd.Context(), GetConfig(cmd.Context()), path)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/pqedit/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().String("compression", "", "Parquet compression for saved files (none|snappy|gzip|brotli|zstd)")
	rootCmd.PersistentFlags().Int64("row-group-size", 0, "Maximum rows per written row group")
	rootCmd.PersistentFlags().Int("repair-parallelism", 0, "Concurrent column reads during repair (0 = number of CPUs)")

	// Window flags
	rootCmd.Flags().Bool("watch", true, "Report changes made to the open file by other programs")
	rootCmd.Flags().Float64("window-width", 0, "Initial window width")
	rootCmd.Flags().Float64("window-height", 0, "Initial window height")

	_ = rootCmd.RegisterFlagCompletionFunc("compression", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"none", "snappy", "gzip", "brotli", "zstd"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewInfoCommand())
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewSetCommand())
	rootCmd.AddCommand(NewRepairCommand())
	rootCmd.AddCommand(NewCopyCommand())
	rootCmd.AddCommand(NewExportCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return config.Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	return config.GetLogger(ctx)
}
