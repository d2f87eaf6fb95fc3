package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghmirror/internal/core/domain"
)

var commitCmd = &cobra.Command{
	Use:   "commit <owner> <repo> <sha>",
	Short: "Mirror a commit into the local store",
	Long: `Makes the given commit present in the local store. The owner user, the
repository and the commit's author and committer are mirrored first.
The sha must be a full 40-character lowercase hex hash; anything else
is dropped without touching the store or the remote.`,
	Args: cobra.ExactArgs(3),
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	started := time.Now().UTC()
	defer recordRun(ctx, started)

	owner, repo, sha := args[0], args[1], args[2]
	res, err := mirrorService.MirrorCommit(ctx, owner, repo, sha)
	if err != nil {
		return fmt.Errorf("mirroring commit: %w", err)
	}

	switch res.State {
	case domain.StateSkipped:
		cmd.Printf("Commit %q dropped: not a valid sha.\n", sha)
	case domain.StatePresent:
		cmd.Printf("Commit %s already mirrored.\n", sha)
	case domain.StateMirrored:
		cmd.Printf("Commit %s mirrored.\n", sha)
	case domain.StateUnresolved:
		cmd.Printf("Commit %s could not be resolved; nothing stored.\n", sha)
	}
	return nil
}
