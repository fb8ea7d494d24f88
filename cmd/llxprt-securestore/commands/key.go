package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/llxprt-securestore/internal/config"
	"github.com/systmms/llxprt-securestore/internal/keycmd"
	"github.com/systmms/llxprt-securestore/internal/providerkeys"
)

// NewKeyCommand exposes the /key command surface (internal/keycmd) as a
// CLI verb, for scripting and manual testing outside of an interactive
// session. cobra.Args is intentionally permissive (ArbitraryArgs) since
// keycmd.Dispatcher owns all argument-shape validation.
func NewKeyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key [save|load|show|list|delete] [args...]",
		Short: "Manage named provider API keys",
		Long: `key saves, retrieves, and removes named provider API keys through
ProviderKeyStorage, the OS-keyring-backed credential store with an
encrypted on-disk fallback.

  key save <name> <apikey>   Store a named key
  key load <name>            Set a named key as the active session key
  key show <name>            Display a masked named key
  key list                   List all named keys
  key delete <name>          Remove a named key
  key <rawkey>                Set an ephemeral session key directly`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := providerkeys.New("")
			if err != nil {
				return fmt.Errorf("failed to open provider key storage: %w", err)
			}

			dispatcher := &keycmd.Dispatcher{
				Keys:           storage,
				SetSessionKey:  func(apiKey string) { cfg.Logger.Info("active session key updated") },
				NonInteractive: cfg.NonInteractive,
				Confirm:        terminalConfirm(cfg.NonInteractive),
			}

			out, err := dispatcher.Dispatch(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	return cmd
}

// terminalConfirm returns a Confirmer that reads a y/n answer from stdin,
// or one that always refuses when the session is non-interactive.
func terminalConfirm(nonInteractive bool) keycmd.Confirmer {
	if nonInteractive {
		return func(prompt string) bool { return false }
	}
	return func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
