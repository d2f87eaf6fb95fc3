package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	gh "github.com/custodia-labs/ghmirror/internal/connectors/github"
	"github.com/custodia-labs/ghmirror/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective mirror configuration",
	Long: `Prints the configuration file path and the effective values of the
mirror keys, with defaults applied where the file is silent.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}
	if configStore == nil {
		return fmt.Errorf("config store: %w", domain.ErrNotConfigured)
	}

	urlBase := configStore.GetString("mirror.urlbase")
	if urlBase == "" {
		urlBase = defaultURLBase
	}
	urlBaseV2 := configStore.GetString("mirror.urlbase_v2")
	if urlBaseV2 == "" {
		urlBaseV2 = defaultURLBaseV2
	}
	reqRate := configStore.GetInt("mirror.reqrate")
	if reqRate <= 0 {
		reqRate = gh.DefaultBudget
	}
	windowSecs := configStore.GetInt("mirror.window_secs")
	if windowSecs <= 0 {
		windowSecs = int(gh.DefaultWindow.Seconds())
	}

	cmd.Printf("Config file:        %s\n", configStore.Path())
	cmd.Printf("mirror.urlbase:     %s\n", urlBase)
	cmd.Printf("mirror.urlbase_v2:  %s\n", urlBaseV2)
	cmd.Printf("mirror.reqrate:     %d\n", reqRate)
	cmd.Printf("mirror.window_secs: %d\n", windowSecs)
	if configStore.GetString("mirror.token") != "" {
		cmd.Println("mirror.token:       (set)")
	} else {
		cmd.Println("mirror.token:       (not set)")
	}
	return nil
}
