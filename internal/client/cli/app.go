package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/habitkeeper/internal/client/api"
	"github.com/dmitrijs2005/habitkeeper/internal/client/config"
	"github.com/dmitrijs2005/habitkeeper/internal/client/habits"
	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/dmitrijs2005/habitkeeper/internal/client/session"
	"github.com/dmitrijs2005/habitkeeper/internal/client/storage"
	"github.com/dmitrijs2005/habitkeeper/internal/client/tokens"
	"github.com/dmitrijs2005/habitkeeper/internal/filex"
	"github.com/dmitrijs2005/habitkeeper/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	session *session.Store
	habits  *habits.Store
	reader  *bufio.Reader
	out     io.Writer
	today   func() models.Date

	mu          sync.Mutex
	selected    string
	fetchStatus models.Status
	unsubscribe func()
}

func newApp(sess *session.Store, hs *habits.Store, in io.Reader, out io.Writer, logger logging.Logger) *App {
	a := &App{
		session: sess,
		habits:  hs,
		reader:  bufio.NewReader(in),
		out:     out,
		logger:  logger,
		today:   models.Today,
	}
	a.unsubscribe = hs.Subscribe(a.onHabitsChange)
	return a
}

// onHabitsChange keeps the prompt label in step with the habit store.
func (a *App) onHabitsChange(st habits.State) {
	label := ""
	if st.Selected != "" {
		for _, h := range st.Habits {
			if h.ID == st.Selected {
				label = h.Name
				break
			}
		}
	}

	a.mu.Lock()
	a.selected = label
	changed := a.fetchStatus != st.Status
	a.fetchStatus = st.Status
	a.mu.Unlock()

	if changed {
		a.logger.Debug(context.Background(), "habits status changed", "status", st.Status, "count", len(st.Habits))
	}
}

func newTokenStore(cfg *config.Config, db *sql.DB) tokens.Store {
	switch cfg.TokenStore {
	case config.TokenStoreKeyring:
		return tokens.NewKeyringStore(tokens.KeyringService)
	case config.TokenStoreMemory:
		return tokens.NewMemoryStore()
	default:
		return tokens.NewSQLiteStore(db)
	}
}

func habitOptions(cfg *config.Config) []habits.Option {
	var opts []habits.Option
	if cfg.StaleGuard {
		opts = append(opts, habits.WithStaleResponseGuard())
	}
	return opts
}

// NewApp opens local state, restores persisted tokens and builds the
// stores. Call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if _, err := filex.EnsureParentDir(cfg.StateFile); err != nil {
		return nil, fmt.Errorf("state dir error: %w", err)
	}

	db, err := storage.Open(ctx, cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("open state file error: %w", err)
	}

	ts := newTokenStore(cfg, db)
	initial, err := ts.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "persisted tokens unreadable, starting logged out", "error", err)
		initial = models.TokenPair{}
	}

	gw, err := api.NewGateway(cfg.APIBaseURL, cfg.RequestTimeout, api.WithLogger(logger.With("component", "gateway")))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	client := api.NewClient(gw)

	sess := session.NewStore(client, ts, initial, logger, session.WithServerLogout(client))
	gw.SetTokenSource(sess)

	hs := habits.NewStore(client, logger, habitOptions(cfg)...)

	app := newApp(sess, hs, os.Stdin, os.Stdout, logger)
	app.config = cfg
	app.db = db
	return app, nil
}

func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "guest"
	}
	a.mu.Lock()
	selected := a.selected
	a.mu.Unlock()
	if selected != "" {
		return "★ " + selected
	}
	return "signed in"
}

// Run blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, titleStyle.Render("habitkeeper")+" (type 'help' for commands)")

	if a.isLoggedIn() {
		if _, err := a.habits.FetchAll(ctx); err != nil {
			a.printError(err)
		}
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printError(err error) {
	a.println(errorStyle.Render("✗ " + api.PayloadOf(err).Message()))
}
