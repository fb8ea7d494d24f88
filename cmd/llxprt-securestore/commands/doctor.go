package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/llxprt-securestore/internal/config"
	"github.com/systmms/llxprt-securestore/internal/keyring"
	"github.com/systmms/llxprt-securestore/internal/providerkeys"
)

// NewDoctorCommand checks that the SecureStore backends are reachable:
// whether the native OS keyring is available, and whether the fallback
// store can be opened and listed. It does not test that the fallback
// directory is writable. Adapted from the teacher's provider
// health-check table (cmd/dsops/commands/doctor.go) but scoped to the two
// SecureStore backends instead of a multi-provider registry.
func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check SecureStore backend health",
		Long: `Verify that the OS keyring is reachable and that the encrypted
fallback store can be opened and its keys listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			loader := keyring.NewDefaultLoader()
			prober := keyring.NewProber(loader)

			available := prober.Available(ctx)

			storage, err := providerkeys.New("")
			if err != nil {
				cfg.Logger.Error("fallback store error: %v", err)
				return fmt.Errorf("failed to open provider key storage: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "BACKEND\tSTATUS\n")
			fmt.Fprintf(w, "-------\t------\n")

			if available {
				fmt.Fprintf(w, "keyring\t✓ available\n")
			} else {
				fmt.Fprintf(w, "keyring\t✗ unavailable (falling back to encrypted file store)\n")
			}

			names, err := storage.ListKeys(ctx)
			if err != nil {
				fmt.Fprintf(w, "fallback\t✗ %v\n", err)
			} else {
				fmt.Fprintf(w, "fallback\t✓ readable (%d key(s) stored)\n", len(names))
			}
			_ = w.Flush()

			if !available {
				cfg.Logger.Warn("No OS keyring is reachable; relying on the encrypted fallback store")
			}
			return nil
		},
	}

	return cmd
}
