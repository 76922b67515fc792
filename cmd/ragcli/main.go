package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/ragcli/internal/app"
	"github.com/hyperifyio/ragcli/internal/rag"
)

// thinkingLevels maps the short flag values to reasoning efforts.
var thinkingLevels = map[string]string{"l": "low", "m": "medium", "h": "high"}

const apiKeyEnv = "OPEN_AI_API_KEY"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	var (
		cfg        app.Config
		thinking   string
		configPath string
	)

	root := &cobra.Command{
		Use:   "ragcli [patterns...]",
		Short: "Chat with your documents through a remote semantic index",
		Long: `ragcli indexes files into a remote vector store and runs a
retrieval-augmented chat over them.

Examples:
  ragcli 'docs/*.md'              Index markdown files and start chatting
  ragcli 'src/**/*.py' '*.md'     Index multiple patterns
  ragcli --reindex 'knowledge/'   Re-index a directory from scratch
  ragcli                          Reuse the existing index
  echo "question" | ragcli -n     One scripted turn on stdin`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			if thinking != "" {
				effort, ok := thinkingLevels[thinking]
				if !ok {
					return fmt.Errorf("%w: invalid thinking level %q (want l, m or h)", app.ErrUsage, thinking)
				}
				cfg.EffortOverride = effort
			}
			if configPath != "" {
				fc, err := app.LoadConfigFile(configPath)
				if err != nil {
					return fmt.Errorf("%w: %v", app.ErrUsage, err)
				}
				app.ApplyFileConfig(&cfg, fc)
			}

			cfg.Patterns = args
			cfg.APIKey = strings.TrimSpace(os.Getenv(apiKeyEnv))
			if cfg.APIKey == "" {
				return fmt.Errorf("%w: %s environment variable not set", app.ErrUsage, apiKeyEnv)
			}

			client := rag.NewOpenAIProvider(rag.Config{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
			})
			return app.New(cfg, client).Run(cmd.Context())
		},
	}

	root.Flags().BoolVar(&cfg.Reindex, "reindex", false, "Force re-upload and re-index of the given patterns")
	root.Flags().BoolVar(&cfg.Strict, "strict", false, "Only answer from indexed file content")
	root.Flags().BoolVar(&cfg.Debug, "debug", false, "Show retrieved chunks after each turn")
	root.Flags().StringVarP(&thinking, "thinking", "t", "", "Reasoning effort override: l, m or h")
	root.Flags().BoolVarP(&cfg.NonInteractive, "non-interactive", "n", false, "Read one query from stdin, print the answer, exit")
	root.Flags().StringVar(&cfg.Model, "model", "", "Model id; skips the interactive picker on (re)index")
	root.Flags().StringVar(&cfg.BaseURL, "base-url", "", "OpenAI-compatible base URL")
	root.Flags().StringVar(&cfg.SettingsPath, "settings", "", "Settings file path (default settings.json)")
	root.Flags().StringVar(&cfg.LogDir, "log-dir", "", "Transcript directory (default chat_logs)")
	root.Flags().StringVar(&cfg.ExportPDFPath, "export-pdf", "", "Write the session transcript as PDF on exit")
	root.Flags().DurationVar(&cfg.PollInterval, "poll-interval", 0, "Indexing poll interval (default 1s)")
	root.Flags().DurationVar(&cfg.PollTimeout, "poll-timeout", app.DefaultPollTimeout, "Give up waiting for indexing after this long (0 waits forever)")
	root.Flags().StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	root.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nInterrupted.")
			os.Exit(0)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps error classes to the process exit status: usage problems
// exit 2, everything else (indexing, upload, stream transport) exits 1.
func exitCode(err error) int {
	if errors.Is(err, app.ErrUsage) {
		return 2
	}
	return 1
}
