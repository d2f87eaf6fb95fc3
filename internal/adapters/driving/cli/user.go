package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghmirror/internal/core/domain"
)

var userCmd = &cobra.Command{
	Use:   "user <login-or-email>",
	Short: "Mirror a user into the local store",
	Long: `Makes the given user present in the local store, fetching it from the
remote API if absent. An identifier containing "@" is resolved as an
email address through the legacy search endpoint; email resolution is
best-effort and may leave the user unresolved.`,
	Args: cobra.ExactArgs(1),
	RunE: runUser,
}

func init() {
	rootCmd.AddCommand(userCmd)
}

func runUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	started := time.Now().UTC()
	defer recordRun(ctx, started)

	res, err := mirrorService.EnsureUser(ctx, args[0])
	if err != nil {
		return fmt.Errorf("mirroring user: %w", err)
	}

	switch res.State {
	case domain.StatePresent:
		cmd.Printf("User %s already mirrored (id %d).\n", res.Login, res.ID)
	case domain.StateCreated:
		cmd.Printf("User %s mirrored (id %d).\n", res.Login, res.ID)
	case domain.StateUnresolved:
		cmd.Printf("User %s could not be resolved; nothing stored.\n", args[0])
	}
	return nil
}
