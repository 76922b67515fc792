// Package app wires the session together: it decides whether indexing is
// needed, runs it, persists the outcome and then drives the conversation
// loop in interactive or non-interactive mode.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/ragcli/internal/chat"
	"github.com/hyperifyio/ragcli/internal/console"
	"github.com/hyperifyio/ragcli/internal/index"
	"github.com/hyperifyio/ragcli/internal/picker"
	"github.com/hyperifyio/ragcli/internal/rag"
	"github.com/hyperifyio/ragcli/internal/settings"
	"github.com/hyperifyio/ragcli/internal/transcript"
)

// ErrUsage marks argument problems detected before any remote call.
// The CLI maps it to its own exit code.
var ErrUsage = errors.New("usage error")

// App is the session driver.
type App struct {
	cfg    Config
	client rag.Client
	store  *settings.Store

	// SelectModel and SelectEffort run the interactive pickers; tests
	// replace them to avoid a terminal.
	SelectModel  func(ctx context.Context) (string, error)
	SelectEffort func() (string, error)
}

// New prepares a session driver over the given remote client. Credential
// checks happen in the CLI layer before the client exists.
func New(cfg Config, client rag.Client) *App {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = settings.DefaultPath
	}
	if cfg.LogDir == "" {
		cfg.LogDir = transcript.DefaultDir
	}
	a := &App{
		cfg:    cfg,
		client: client,
		store:  &settings.Store{Path: cfg.SettingsPath},
	}
	a.SelectModel = a.pickModel
	a.SelectEffort = func() (string, error) {
		return picker.Pick("Reasoning effort", picker.EffortItems())
	}
	return a
}

// Run executes the whole session. Settings are only written after a fully
// successful (re)index; every failure path leaves the previous record on
// disk untouched.
func (a *App) Run(ctx context.Context) error {
	st, found := a.store.Load()
	if a.cfg.Reindex || !found || !st.Valid() {
		updated, err := a.reindex(ctx, st)
		if err != nil {
			return err
		}
		st = updated
	} else if !a.cfg.NonInteractive {
		console.Faint(a.cfg.Stderr, "Using model: "+st.Model)
		if st.ReasoningEffort != "" {
			console.Faint(a.cfg.Stderr, "Reasoning effort: "+st.ReasoningEffort)
		}
		console.Faint(a.cfg.Stderr, "Using vector store: "+st.VectorStoreID)
		if len(st.FilePatterns) > 0 {
			console.Faint(a.cfg.Stderr, "Indexed patterns: "+strings.Join(st.FilePatterns, ", "))
		}
	}

	effort := st.ReasoningEffort
	if a.cfg.EffortOverride != "" {
		effort = a.cfg.EffortOverride
		if !a.cfg.NonInteractive {
			console.Faint(a.cfg.Stderr, "Reasoning effort override: "+effort)
		}
	}

	tw, err := transcript.NewWriter(a.cfg.LogDir, time.Now())
	if err != nil {
		return err
	}
	defer a.exportPDF(tw)

	engine := chat.NewEngine(a.client, st.Model, st.VectorStoreID, a.cfg.Strict)
	engine.ReasoningEffort = effort
	engine.Debug = a.cfg.Debug
	engine.Sink = a.cfg.Stdout
	engine.Log = tw

	if a.cfg.NonInteractive {
		return a.runOnce(ctx, engine)
	}
	return a.runLoop(ctx, engine)
}

// reindex runs the full indexing pipeline and returns the new settings
// record, a complete replacement for prev. Model and effort are chosen
// afresh on every (re)index unless flags pin them.
func (a *App) reindex(ctx context.Context, prev settings.Settings) (settings.Settings, error) {
	if len(a.cfg.Patterns) == 0 {
		return prev, fmt.Errorf("%w: no files specified for indexing", ErrUsage)
	}

	model := a.cfg.Model
	if model == "" {
		m, err := a.SelectModel(ctx)
		if err != nil {
			return prev, err
		}
		model = m
	}

	effort := a.cfg.EffortOverride
	if effort == "" {
		e, err := a.SelectEffort()
		if err != nil {
			return prev, err
		}
		effort = e
	}

	ix := &index.Indexer{
		Client:       a.client,
		PollInterval: a.cfg.PollInterval,
		PollTimeout:  a.cfg.PollTimeout,
		Progress: func(msg string) {
			console.Success(a.cfg.Stderr, msg)
		},
	}
	storeID, err := ix.Index(ctx, a.cfg.Patterns)
	if err != nil {
		return prev, err
	}

	st := settings.Settings{
		Model:           model,
		ReasoningEffort: effort,
		FilePatterns:    a.cfg.Patterns,
		VectorStoreID:   storeID,
	}
	if err := a.store.Save(st); err != nil {
		return prev, err
	}
	log.Info().Str("vector_store", storeID).Msg("settings saved")
	return st, nil
}

// runOnce reads one complete query from stdin, streams the answer to
// stdout and exits. Empty input is a successful no-op: no request is made.
func (a *App) runOnce(ctx context.Context, engine *chat.Engine) error {
	in, err := io.ReadAll(a.cfg.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	query := strings.TrimSpace(string(in))
	if query == "" {
		return nil
	}
	if _, _, err := engine.SubmitTurn(ctx, query); err != nil {
		return err
	}
	fmt.Fprintln(a.cfg.Stdout)
	return nil
}

// runLoop is the interactive session: one line per turn until an exit
// keyword. A failed turn is reported and the loop continues.
func (a *App) runLoop(ctx context.Context, engine *chat.Engine) error {
	console.Title(a.cfg.Stdout, "=== RAG session ready ===")
	fmt.Fprintln(a.cfg.Stdout, "Type 'quit' to exit.")
	fmt.Fprintln(a.cfg.Stdout)

	scanner := bufio.NewScanner(a.cfg.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(a.cfg.Stdout, "You: ")
		if !scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "quit" || lower == "exit" {
			fmt.Fprintln(a.cfg.Stdout, "Goodbye.")
			return nil
		}

		fmt.Fprintln(a.cfg.Stdout)
		console.Title(a.cfg.Stdout, "Assistant:")
		_, retrieved, err := engine.SubmitTurn(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(a.cfg.Stdout)
			console.Error(a.cfg.Stderr, err.Error())
			continue
		}
		fmt.Fprintln(a.cfg.Stdout)
		fmt.Fprintln(a.cfg.Stdout)

		if a.cfg.Debug && len(retrieved) > 0 {
			console.Title(a.cfg.Stdout, "--- Retrieved chunks ---")
			for _, chunk := range retrieved {
				fmt.Fprintln(a.cfg.Stdout, string(chunk.Payload))
			}
			fmt.Fprintln(a.cfg.Stdout)
		}
	}
}

// pickModel lists remote models and runs the interactive picker over the
// chat-capable subset.
func (a *App) pickModel(ctx context.Context) (string, error) {
	ids, err := a.client.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("list models: %w", err)
	}
	items := make([]picker.Item, 0, len(ids))
	for _, id := range ids {
		if strings.HasPrefix(id, "gpt-") {
			items = append(items, picker.Item{Value: id})
		}
	}
	if len(items) == 0 {
		return "", errors.New("no chat models available")
	}
	return picker.Pick("Select model", items)
}

// exportPDF renders the transcript when requested and a transcript was
// actually written this run.
func (a *App) exportPDF(tw *transcript.Writer) {
	if a.cfg.ExportPDFPath == "" {
		return
	}
	if _, err := os.Stat(tw.Path()); err != nil {
		return
	}
	if err := transcript.ExportPDF(tw.Path(), a.cfg.ExportPDFPath); err != nil {
		log.Warn().Err(err).Msg("pdf export failed")
		return
	}
	console.Success(a.cfg.Stderr, "transcript exported: "+a.cfg.ExportPDFPath)
}
