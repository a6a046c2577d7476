// Package cli implements zpeople's command line: the root command that starts
// the TUI plus the list, add, seed, rm and version subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zarlcorp/zpeople/internal/config"
	"github.com/zarlcorp/zpeople/internal/logging"
	"github.com/zarlcorp/zpeople/internal/store"
	"github.com/zarlcorp/zpeople/internal/store/sqlite"
	"github.com/zarlcorp/zpeople/internal/store/vault"
)

// PasswordEnv names the variable that supplies the vault password
// non-interactively.
const PasswordEnv = "ZPEOPLE_PASSWORD"

// PasswordFunc returns the vault password. firstRun is true when the vault
// does not exist yet and the password should be confirmed.
type PasswordFunc func(firstRun bool) ([]byte, error)

// TUIFunc runs the interactive list. It is called by the bare root command.
type TUIFunc func(ctx context.Context, cfg *config.Config) error

// Options wire the commands to their surroundings.
type Options struct {
	Version  string
	RunTUI   TUIFunc
	Password PasswordFunc // nil reads ZPEOPLE_PASSWORD or the terminal
}

// app holds state shared by every command once flags are parsed.
type app struct {
	opts Options

	configPath string
	backend    string
	dataDir    string

	cfg *config.Config
}

// NewRootCmd builds the zpeople command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Password == nil {
		opts.Password = TerminalPassword(os.Stderr)
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "zpeople",
		Short: "keep a list of people in a local store",
		Long: `zpeople lists, adds, filters, sorts and deletes people kept in a local
SQLite database or a password-encrypted vault.

Run without arguments to start the interactive list.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.opts.RunTUI == nil {
				return cmd.Help()
			}
			return a.opts.RunTUI(cmd.Context(), a.cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath(), "config file")
	pf.StringVar(&a.backend, "backend", "", "storage backend: sqlite or vault")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory")

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.seedCmd(),
		a.rmCmd(),
		a.versionCmd(),
	)
	return root
}

// loadConfig reads the config file and applies flag overrides. Subcommands
// also get stderr logging; the TUI sets up its own log file.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = a.backend
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if cmd.HasParent() {
		logging.Setup(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))
	}
	return nil
}

// openStore opens the configured backend.
func (a *app) openStore() (*store.Store, error) {
	return OpenStore(a.cfg, a.opts.Password)
}

// OpenStore opens the backend named by cfg. The password func is consulted
// only for the vault backend.
func OpenStore(cfg *config.Config, password PasswordFunc) (*store.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		b, err := sqlite.Open(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		return store.New(b), nil

	case config.BackendVault:
		dir := cfg.VaultDir()
		pw, err := password(!vault.Initialized(dir))
		if err != nil {
			return nil, err
		}
		b, err := vault.Open(dir, pw)
		if err != nil {
			return nil, err
		}
		return store.New(b), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// TerminalPassword returns a PasswordFunc that uses ZPEOPLE_PASSWORD when set
// and otherwise prompts on w.
func TerminalPassword(w io.Writer) PasswordFunc {
	return func(firstRun bool) ([]byte, error) {
		if pw := os.Getenv(PasswordEnv); pw != "" {
			return []byte(pw), nil
		}
		var (
			pass string
			err  error
		)
		if firstRun {
			pass, err = ReadNewPassword(w)
		} else {
			pass, err = ReadPassword("vault password: ", w)
		}
		if err != nil {
			return nil, err
		}
		return []byte(pass), nil
	}
}

// ReadPassword prompts for a password on w and reads it without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword prompts for a new password with confirmation.
func ReadNewPassword(w io.Writer) (string, error) {
	pass, err := ReadPassword("create vault password: ", w)
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword("confirm password: ", w)
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
