package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/config"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/platform"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/realtime"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/repomanager"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/rows"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/board"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/local"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/remote"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/sortmode"
	"github.com/Spielbergo/clipifyit-sub000/internal/dbx"
	"github.com/Spielbergo/clipifyit-sub000/internal/filex"
	"github.com/Spielbergo/clipifyit-sub000/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	board  *board.Board
	clip   platform.Clipboard
	input  *bufio.Scanner
	out    io.Writer

	closers []func() error
}

// NewApp opens the store for the configured tier, runs its migrations and
// loads the initial list.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	tier, _ := models.ParseTier(c.Tier)

	a := &App{
		config: c,
		logger: logger,
		clip:   platform.Detect(),
		input:  bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
	}

	ctx, cancel := context.WithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	var err error
	if tier == models.TierPro {
		err = a.initPro(ctx)
	} else {
		err = a.initFree(ctx)
	}
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initFree(ctx context.Context) error {
	if err := filex.EnsureParentDir(a.config.LocalDBPath); err != nil {
		return err
	}
	db, err := dbx.OpenSQLite(ctx, a.config.LocalDBPath)
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	m := repomanager.NewSQLiteRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate local database: %w", err)
	}

	e := local.NewEngine(m.KV(db), a.logger.With("tier", models.TierFree))
	if err := e.Load(ctx); err != nil {
		return err
	}
	a.board = board.New(e, sortmode.NewStore(models.SortNewest))
	return nil
}

func (a *App) initPro(ctx context.Context) error {
	db, err := dbx.OpenPostgres(ctx, a.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store, sub, err := a.connectRealtime(ctx, m.Rows(db))
	if err != nil {
		return err
	}

	e := remote.NewEngine(store, sub, a.logger.With("tier", models.TierPro))
	a.closers = append(a.closers, e.Close)
	a.board = board.New(e, sortmode.NewStore(models.SortNewest))
	return a.board.SetScope(ctx, a.config.Scope())
}

// connectRealtime wraps repo with event publishing when a Redis URL is configured.
func (a *App) connectRealtime(ctx context.Context, repo rows.Repository) (rows.Repository, realtime.Subscriber, error) {
	if a.config.RedisURL == "" {
		a.logger.Info(ctx, "realtime sync disabled; use refresh to see other sessions' changes")
		return repo, nil, nil
	}
	client, err := realtime.Connect(ctx, a.config.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, client.Close)
	return a.withRedis(repo, client)
}

func (a *App) withRedis(repo rows.Repository, client *redis.Client) (rows.Repository, realtime.Subscriber, error) {
	log := a.logger.With("component", "realtime")
	store := realtime.NewPublishingStore(repo, realtime.NewRedisPublisher(client), log)
	return store, realtime.NewRedisSubscriber(client, log), nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	cancel := a.board.Modes.Subscribe(func(c sortmode.Change) {
		a.logger.Debug(ctx, "sort mode changed", "from", c.From, "to", c.To, "cause", c.Cause)
	})
	defer cancel()

	printlnFn("Clipify (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.input)
}

// Close releases stores in reverse order of opening.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) status() string {
	s := fmt.Sprintf("%s %s", a.board.Tier(), a.board.Modes.Mode())
	if scope, ok := a.board.Scope(); ok {
		s = scope.String() + " " + s
	}
	if n := a.board.Selection.Len(); n > 0 {
		s += fmt.Sprintf(" %d selected", n)
	}
	return s
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
