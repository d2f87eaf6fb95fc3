package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghmirror/internal/core/domain"
)

var repoCmd = &cobra.Command{
	Use:   "repo <owner> <name>",
	Short: "Mirror a repository into the local store",
	Long: `Makes the given repository present in the local store. The owner user
is mirrored first; a repository row never exists without its owner.`,
	Args: cobra.ExactArgs(2),
	RunE: runRepo,
}

func init() {
	rootCmd.AddCommand(repoCmd)
}

func runRepo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	started := time.Now().UTC()
	defer recordRun(ctx, started)

	owner, name := args[0], args[1]
	res, err := mirrorService.EnsureRepo(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("mirroring repo: %w", err)
	}

	switch res.State {
	case domain.StatePresent:
		cmd.Printf("Repository %s/%s already mirrored (id %d).\n", owner, name, res.ID)
	case domain.StateCreated:
		cmd.Printf("Repository %s/%s mirrored (id %d).\n", owner, name, res.ID)
	case domain.StateUnresolved:
		cmd.Printf("Repository %s/%s could not be resolved; nothing stored.\n", owner, name)
	}
	return nil
}
