// Package cli implements the cobra command surface of ghmirror.
// Commands drive the mirror engine through the driving port; services
// are wired lazily on first use so tests can inject mocks through the
// package-level variables.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/ghmirror/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ghmirror/internal/adapters/driven/storage/sqlite"
	gh "github.com/custodia-labs/ghmirror/internal/connectors/github"
	"github.com/custodia-labs/ghmirror/internal/core/domain"
	"github.com/custodia-labs/ghmirror/internal/core/ports/driven"
	"github.com/custodia-labs/ghmirror/internal/core/ports/driving"
	"github.com/custodia-labs/ghmirror/internal/core/services"
	"github.com/custodia-labs/ghmirror/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

// Configuration defaults applied when keys are absent.
const (
	defaultURLBase   = "https://api.github.com"
	defaultURLBaseV2 = "https://github.com/api/v2/json"
)

// Services driven by the commands. Wired by initServices; tests swap
// these for mocks.
var (
	mirrorService driving.MirrorService
	runStore      driven.RunStore
	configStore   driven.ConfigStore
	store         *sqlite.Store
)

var (
	configDir string
	dataDir   string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "ghmirror",
	Short: "Lazily mirror GitHub metadata into a local store",
	Long: `ghmirror incrementally mirrors remote users, repositories and commits
into a local SQLite database. Entities are fetched only when absent
locally, dependencies are resolved bottom-up (users before projects
before commits) and remote calls respect a fixed-window rate limit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Warn("closing store: %v", err)
			}
			store = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.ghmirror)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.ghmirror/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the config store, the backing store, the remote
// client and the engine. It is a no-op when a service has already
// been injected (tests) or wired by a previous command.
func initServices(ctx context.Context) error {
	if mirrorService != nil {
		return nil
	}

	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	urlBase := cfg.GetString("mirror.urlbase")
	if urlBase == "" {
		urlBase = defaultURLBase
	}
	urlBaseV2 := cfg.GetString("mirror.urlbase_v2")
	if urlBaseV2 == "" {
		urlBaseV2 = defaultURLBaseV2
	}
	reqRate := cfg.GetInt("mirror.reqrate")
	window := time.Duration(cfg.GetInt("mirror.window_secs")) * time.Second

	limiter := gh.NewRateLimiter(reqRate, window)
	var client *gh.Client
	if token := cfg.GetString("mirror.token"); token != "" {
		client = gh.NewClientWithToken(ctx, token, limiter)
	} else {
		logger.Info("no mirror.token configured, using unauthenticated requests")
		client = gh.NewClient(limiter)
	}

	st, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	store = st
	runStore = st.RunStore()

	mirrorService = services.NewMirrorEngine(
		st.UserStore(), st.ProjectStore(), st.CommitStore(),
		client, urlBase, urlBaseV2,
	)
	return nil
}

// recordRun persists run accounting for one command invocation.
// Failures are warnings: accounting never fails the mirroring itself.
func recordRun(ctx context.Context, started time.Time) {
	if runStore == nil || mirrorService == nil {
		return
	}

	stats := mirrorService.Stats()
	run := &domain.Run{
		ID:            uuid.NewString(),
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
		Requests:      stats.Requests,
		UsersAdded:    stats.UsersAdded,
		ProjectsAdded: stats.ProjectsAdded,
		CommitsAdded:  stats.CommitsAdded,
	}
	if err := runStore.Save(ctx, run); err != nil {
		logger.Warn("recording run: %v", err)
	}
}
