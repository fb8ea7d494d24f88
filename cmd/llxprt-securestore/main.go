package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/llxprt-securestore/cmd/llxprt-securestore/commands"
	"github.com/systmms/llxprt-securestore/internal/config"
	"github.com/systmms/llxprt-securestore/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "llxprt-securestore",
		Short: "Manage provider API keys in the OS keyring with an encrypted fallback",
		Long: `llxprt-securestore stores and resolves provider API keys: OS-keyring-backed
storage with an encrypted on-disk fallback, and a startup auth-source
resolver that picks the active session key from ranked sources.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)
			cfg.Path = configFile
			cfg.Logger = logger
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "profile", "llxprt-profile.yaml", "Profile file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.AddCommand(
		commands.NewKeyCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
