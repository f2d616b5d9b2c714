package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/grimoire/internal/auth"
	"github.com/idilsaglam/grimoire/internal/catalog"
	"github.com/idilsaglam/grimoire/internal/config"
	"github.com/idilsaglam/grimoire/internal/logging"
	"github.com/idilsaglam/grimoire/internal/observability"
	"github.com/idilsaglam/grimoire/internal/progress"
	"github.com/idilsaglam/grimoire/internal/remote/pgstore"
	"github.com/idilsaglam/grimoire/internal/remote/rest"
	"github.com/idilsaglam/grimoire/internal/remote/sqlitestore"
	"github.com/idilsaglam/grimoire/internal/ui"
)

type rootFlags struct {
	configPath string
	verbose    bool
	theme      string
	noColor    bool
	forceColor bool
}

// state is shared by every command of one invocation. Remote connections are
// opened lazily so auth and prep commands work offline.
type state struct {
	flags rootFlags

	cfg     config.Config
	logger  *zap.Logger
	catalog catalog.Catalog
	session auth.Session

	remote  progress.Remote
	closers []func()
}

func (st *state) init(cmd *cobra.Command) error {
	cfg, err := config.Load(st.flags.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg

	theme := cfg.Theme
	if st.flags.theme != "" {
		theme = st.flags.theme
	}
	ui.SetTheme(theme)
	if st.flags.noColor || st.flags.forceColor {
		ui.SetColorForcing(st.flags.forceColor, st.flags.noColor)
	}

	// The list TUI owns the terminal; keep logs off it.
	logger, err := logging.New(logging.Options{
		Verbose: st.flags.verbose,
		File:    cfg.LogFile,
		Quiet:   cmd.Name() == "ls",
	})
	if err != nil {
		return err
	}
	st.logger = logger

	st.catalog, err = catalog.Default()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	// A hosted backend needs a real account; local stores fall back to a
	// static id.
	st.session = auth.Session{}
	if cfg.Backend != config.BackendREST {
		st.session.Fallback = cfg.UserID
	}
	return nil
}

func (st *state) close() {
	for i := len(st.closers) - 1; i >= 0; i-- {
		st.closers[i]()
	}
	if st.logger != nil {
		if err := observability.WriteTextfile(st.cfg.MetricsFile); err != nil {
			st.logger.Warn("write metrics", zap.Error(err))
		}
		_ = st.logger.Sync()
	}
}

func (st *state) openRemote(ctx context.Context) (progress.Remote, error) {
	if st.remote != nil {
		return st.remote, nil
	}
	switch st.cfg.Backend {
	case config.BackendREST:
		c, err := rest.New(st.cfg.REST.URL, st.cfg.REST.Table, st.cfg.REST.APIKey,
			rest.WithToken(st.session.Token),
			rest.WithHTTPClient(&http.Client{Timeout: st.cfg.RequestTimeout}),
		)
		if err != nil {
			return nil, err
		}
		st.remote = c
	case config.BackendSQLite:
		s, err := sqlitestore.Open(ctx, st.cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		st.closers = append(st.closers, func() { _ = s.Close() })
		st.remote = s
	case config.BackendPostgres:
		s, err := pgstore.Connect(ctx, st.cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, s.Close)
		st.remote = s
	default:
		return nil, fmt.Errorf("unknown backend %q", st.cfg.Backend)
	}
	st.logger.Debug("remote opened", zap.String("backend", st.cfg.Backend))
	return st.remote, nil
}

// ensureUser requires an identity for commands that touch saved progress.
func (st *state) ensureUser() (string, error) {
	user, ok := st.session.CurrentUser()
	if !ok || strings.TrimSpace(user) == "" {
		return "", usagef("no user found. Set GRIMOIRE_TOKEN or run `grimoire auth login`")
	}
	return user, nil
}

// tracker opens the remote, builds the store and loads the user's progress.
func (st *state) tracker(ctx context.Context, n progress.Notifier) (*progress.Store, string, error) {
	user, err := st.ensureUser()
	if err != nil {
		return nil, "", err
	}
	remote, err := st.openRemote(ctx)
	if err != nil {
		return nil, "", err
	}
	store := progress.New(st.catalog.Items, remote, st.session,
		progress.WithNotifier(n),
		progress.WithLogger(st.logger),
		progress.WithTimeout(st.cfg.RequestTimeout),
	)
	if _, err := store.Load(ctx, user); err != nil {
		return nil, "", err
	}
	return store, user, nil
}
