package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zpeople/internal/cli"
	"github.com/zarlcorp/zpeople/internal/config"
	"github.com/zarlcorp/zpeople/internal/logging"
	"github.com/zarlcorp/zpeople/internal/store"
	"github.com/zarlcorp/zpeople/internal/store/vault"
	"github.com/zarlcorp/zpeople/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zpeople"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	root := cli.NewRootCmd(cli.Options{
		Version: version,
		RunTUI:  runTUI,
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "zpeople: %v\n", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	logFile, err := logging.SetupFile(cfg.LogPath(), logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	opts := tui.Options{Context: ctx, Sort: cfg.DefaultSort()}

	var m tui.Model
	switch cfg.Backend {
	case config.BackendVault:
		open := func(password []byte) (*store.Store, error) {
			return cli.OpenStore(cfg, func(bool) ([]byte, error) { return password, nil })
		}
		m = tui.NewLocked(version, open, !vault.Initialized(cfg.VaultDir()), opts)

	default:
		s, err := cli.OpenStore(cfg, nil)
		if err != nil {
			return err
		}
		defer s.Close()
		m = tui.New(version, s, opts)
	}

	slog.Info("starting tui", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()

	// a vault store unlocked inside the TUI is closed here
	if fm, ok := finalModel.(tui.Model); ok {
		fm.Close()
	}

	return runErr(err)
}

// runErr drops the error bubbletea reports when the signal context ends the
// program. Ctrl-C is a normal way to leave. Panics still fail.
func runErr(err error) error {
	if errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrProgramPanic) {
		slog.Info("tui stopped", "reason", err)
		return nil
	}
	return err
}
