package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/storyling/internal/config"
	"github.com/abhisek/storyling/internal/llm"
	"github.com/abhisek/storyling/internal/logging"
	"github.com/abhisek/storyling/internal/store"
	"github.com/abhisek/storyling/internal/telemetry"
	"github.com/abhisek/storyling/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:   "storyling",
	Short: "AI reading tutor in the terminal",
	Long: `Storyling writes a short English story on a theme you pick, asks you to
retell it in your own words, then quizzes you on it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

// runtime is what setup builds for every command.
type runtime struct {
	cfg      config.Config
	log      *zap.Logger
	shutdown func(context.Context) error
}

var rt = runtime{log: zap.NewNop()}

// Execute runs the root command and releases what setup acquired.
func Execute(ctx context.Context) error {
	defer rt.close()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Config file (default: storyling.yaml in ., $XDG_CONFIG_HOME/storyling or ~/.config/storyling)")
	f.String("db", "", "Path to SQLite database file (overrides STORYLING_DB env var)")
	f.String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter or mock")
	f.String("model", "", "Model for the selected provider")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-file", "", "Log file (default: $XDG_STATE_HOME/storyling/storyling.log)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}

	telCfg, err := telemetry.LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("telemetry config: %w", err)
	}
	shutdown, err := telemetry.Setup(cmd.Context(), telCfg)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}

	rt = runtime{cfg: cfg, log: log, shutdown: shutdown}
	log.Debug("starting",
		zap.String("command", cmd.CommandPath()),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("config_file", cfg.File),
		zap.Bool("tracing", telCfg.Active()))
	return nil
}

func (r runtime) close() {
	if r.shutdown != nil {
		if err := r.shutdown(context.Background()); err != nil {
			r.log.Warn("telemetry shutdown", zap.Error(err))
		}
	}
	_ = r.log.Sync()
}

// resolveDBPath returns the configured database path (--db, STORYLING_DB
// or the config file), then the default XDG path.
func resolveDBPath() (string, error) {
	if p := rt.cfg.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newTutor builds the tutor over the configured provider. The mock
// provider serves the built-in demo story. repo may be nil.
func newTutor(ctx context.Context, repo store.EventRepo) (*tutor.Service, error) {
	cfg := rt.cfg
	var provider llm.Provider
	if cfg.LLM.Provider == llm.ProviderMock {
		provider = llm.Wrap(tutor.NewDemoProvider(), cfg.LLM, repo, rt.log)
	} else {
		var err error
		provider, err = llm.NewProvider(ctx, cfg.LLM, repo, rt.log)
		if err != nil {
			return nil, fmt.Errorf("%w\n(try --provider mock for the offline demo story)", err)
		}
	}
	return tutor.NewService(provider, cfg.Tutor), nil
}
