package cmd

import (
	"context"
	"go/types"

	"github.com/spf13/cobra"

	cmdUtils "github.com/meridianpay/wallet-platform-backend/cmd/utils"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
)

// globalOptions holds the global CLI options that can be applied to any
// command or subcommand.
var globalOptions cmdUtils.GlobalOptionsType

func rootCmd() *cobra.Command {
	configOpts := cmdUtils.ConfigOptions{
		{
			Name:           "log-level",
			Usage:          `The log level used in this project. Options: "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", or "PANIC".`,
			OptType:        types.String,
			FlagDefault:    "TRACE",
			ConfigKey:      &globalOptions.LogLevel,
			CustomSetValue: cmdUtils.SetConfigOptionLogLevel,
			Required:       true,
		},
		{
			Name:      "sentry-dsn",
			Usage:     "The DSN (client key) of the Sentry project. If not provided, Sentry will not be used.",
			OptType:   types.String,
			ConfigKey: &globalOptions.SentryDSN,
			Required:  false,
		},
		{
			Name:        "environment",
			Usage:       `The environment where the application is running. Example: "development", "staging", "production".`,
			OptType:     types.String,
			FlagDefault: "development",
			ConfigKey:   &globalOptions.Environment,
			Required:    true,
		},
		{
			Name:        "database-url",
			Usage:       "MongoDB connection URL",
			OptType:     types.String,
			FlagDefault: "mongodb://localhost:27017",
			ConfigKey:   &globalOptions.DatabaseURL,
			Required:    true,
		},
		{
			Name:        "database-name",
			Usage:       "Name of the MongoDB database",
			OptType:     types.String,
			FlagDefault: "wallet-platform",
			ConfigKey:   &globalOptions.DatabaseName,
			Required:    true,
		},
		{
			Name:        "base-url",
			Usage:       "The dashboard base URL used when building links embedded in outgoing emails.",
			OptType:     types.String,
			ConfigKey:   &globalOptions.BaseURL,
			FlagDefault: "http://localhost:8000",
			Required:    true,
		},
	}

	rootCmd := &cobra.Command{
		Use:     "wallet-platform",
		Short:   "Wallet Platform",
		Long:    "The Wallet Platform exposes a GraphQL API for managing cryptocurrency wallets, transfers and balances on top of a hosted custody platform.",
		Version: globalOptions.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			if err := configOpts.Require(); err != nil {
				logging.L(ctx).Fatalf("Error checking required config options: %v", err)
			}
			if err := configOpts.SetValues(); err != nil {
				logging.L(ctx).Fatalf("Error setting values of config options: %v", err)
			}
			logging.L(ctx).Info("Version: ", globalOptions.Version)
			logging.L(ctx).Info("GitCommit: ", globalOptions.GitCommit)
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := cmd.Help(); err != nil {
				logging.L(cmd.Context()).Fatalf("Error calling help command: %v", err)
			}
		},
	}

	if err := configOpts.Init(rootCmd); err != nil {
		logging.L(context.Background()).Fatalf("Error initializing a config option: %v", err)
	}

	return rootCmd
}

// SetupCLI sets up the CLI and returns the root command with the subcommands
// attached.
func SetupCLI(version, gitCommit string) *cobra.Command {
	globalOptions.Version = version
	globalOptions.GitCommit = gitCommit
	rootCmd := rootCmd()

	// Add subcommands
	rootCmd.AddCommand((&ServeCommand{}).Command(&ServerService{}, &monitor.MonitorService{}))
	rootCmd.AddCommand((&AddUserCommand{}).Command(NewDefaultPasswordPrompt()))

	return rootCmd
}
