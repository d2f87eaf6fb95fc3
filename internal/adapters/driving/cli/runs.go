package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runsLimit caps the number of runs printed.
const runsLimit = 20

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent mirroring runs",
	Long: `Prints the most recent mirroring runs with their remote request counts
and the number of rows inserted per entity type.`,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	runs, err := runStore.ListRecent(ctx, runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %s  requests=%d users=%d projects=%d commits=%d\n",
			run.StartedAt.Format(time.RFC3339), run.ID,
			run.Requests, run.UsersAdded, run.ProjectsAdded, run.CommitsAdded)
	}
	return nil
}
