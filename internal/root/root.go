package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"popcorn-watchlist-service/internal/config"
	"popcorn-watchlist-service/internal/detail"
	"popcorn-watchlist-service/internal/handler"
	"popcorn-watchlist-service/internal/search"
	"popcorn-watchlist-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// RootOption configures the root command (e.g. for tests).
type RootOption func(*rootConfig)

type rootConfig struct {
	cfg     *config.Config
	fs      afero.Fs
	console io.Writer
}

// WithConfig replaces the configuration read from the environment
func WithConfig(cfg *config.Config) RootOption {
	return func(c *rootConfig) {
		c.cfg = cfg
	}
}

// WithFs sets the filesystem behind the file store. Use afero.NewMemMapFs in tests.
func WithFs(fs afero.Fs) RootOption {
	return func(c *rootConfig) {
		c.fs = fs
	}
}

// WithLogWriter sends log output to w instead of stderr
func WithLogWriter(w io.Writer) RootOption {
	return func(c *rootConfig) {
		c.console = w
	}
}

func Root(ctx context.Context, opts ...RootOption) (*cli.Command, error) {
	rc := &rootConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.cfg == nil {
		rc.cfg = config.Load()
	}
	if rc.fs == nil {
		rc.fs = afero.NewOsFs()
	}
	if rc.console == nil {
		rc.console = os.Stderr
	}

	switch rc.cfg.WatchedStore {
	case config.StoreRedis, config.StoreFile, config.StoreMemory:
	default:
		return nil, fmt.Errorf("invalid WATCHED_STORE %q (valid: redis, file, memory)", rc.cfg.WatchedStore)
	}

	var logFile io.Closer
	rootCmd := &cli.Command{
		Name:  "popcorn",
		Usage: "search movies and keep a rated watched list",
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			logFile = setupLogging(rc.console, rc.cfg.LogLevel, rc.cfg.LogFile)
			return ctx, nil
		},
		After: func(context.Context, *cli.Command) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "port",
						Usage: "listen port",
						Value: rc.cfg.Port,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return rc.serve(ctx, cmd.String("port"))
				},
			},
			{
				Name:      "search",
				Usage:     "search movies by title",
				ArgsUsage: "<query>",
				Action:    rc.runSearch,
			},
			{
				Name:      "detail",
				Usage:     "show the details of one movie",
				ArgsUsage: "<imdb id>",
				Action:    rc.runDetail,
			},
			{
				Name:  "watched",
				Usage: "manage the watched list",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "print the watched list and its summary",
						Action: rc.watchedList,
					},
					{
						Name:      "add",
						Usage:     "rate a movie and add it to the watched list",
						ArgsUsage: "<imdb id>",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:     "rating",
								Aliases:  []string{"r"},
								Usage:    "your rating, 1-10",
								Required: true,
							},
						},
						Action: rc.watchedAdd,
					},
					{
						Name:      "rm",
						Usage:     "remove a movie from the watched list",
						ArgsUsage: "<imdb id>",
						Action:    rc.watchedRemove,
					},
				},
			},
		},
	}

	return rootCmd, nil
}

func (rc *rootConfig) serve(ctx context.Context, port string) error {
	cfg := rc.cfg
	gin.SetMode(cfg.GinMode)

	log.Info().
		Str("port", port).
		Str("mode", cfg.GinMode).
		Str("watched_store", cfg.WatchedStore).
		Msg("🚀 Starting popcorn-watchlist-service")

	a, err := openApp(ctx, cfg, rc.fs)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.metrics != nil {
		if err := a.metrics.RecordServerStart(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to record server start")
		}
		log.Info().Msg("📊 Metrics enabled")
	}

	sess := session.New(search.NewHook(a.omdb), a.omdb, a.list)
	defer sess.Shutdown()

	router := handler.NewRouter(handler.RouterDeps{
		Session:      sess,
		OMDB:         a.omdb,
		Cache:        a.cache,
		Metrics:      a.metrics,
		AdminAPIKey:  cfg.AdminAPIKey,
		WatchedStore: cfg.WatchedStore,
	})

	if cfg.AdminAPIKey != "" {
		log.Info().Msg("🔐 Admin API authentication enabled")
	} else {
		log.Warn().Msg("⚠️  Admin API key not set, admin endpoints are open")
	}

	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("🌐 Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("👋 Server exited")
	return nil
}

func (rc *rootConfig) runSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if len([]rune(strings.TrimSpace(query))) < search.MinQueryLength {
		return fmt.Errorf("query must be at least %d characters", search.MinQueryLength)
	}

	a, err := openApp(ctx, rc.cfg, rc.fs)
	if err != nil {
		return err
	}
	defer a.Close()

	hook := search.NewHook(a.omdb)
	defer hook.Close()

	hook.SetQuery(query)
	hook.Wait()
	state := hook.State()
	if state.Error != "" {
		return errors.New(state.Error)
	}
	return printResults(cmd.Root().Writer, state.Results)
}

func (rc *rootConfig) runDetail(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("missing imdb id")
	}

	a, err := openApp(ctx, rc.cfg, rc.fs)
	if err != nil {
		return err
	}
	defer a.Close()

	view := detail.Open(ctx, a.omdb, id)
	view.Wait()
	state := view.State()
	if state.Error != "" {
		return errors.New(state.Error)
	}
	return printDetail(cmd.Root().Writer, state.Detail)
}

func (rc *rootConfig) watchedList(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(ctx, rc.cfg, rc.fs)
	if err != nil {
		return err
	}
	defer a.Close()

	return printWatched(cmd.Root().Writer, a.list.Entries())
}

// watchedAdd walks the same path as the UI: open the movie, rate it, confirm
func (rc *rootConfig) watchedAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("missing imdb id")
	}

	a, err := openApp(ctx, rc.cfg, rc.fs)
	if err != nil {
		return err
	}
	defer a.Close()

	sess := session.New(search.NewHook(a.omdb), a.omdb, a.list)
	defer sess.Shutdown()

	sess.Select(ctx, id)
	sess.WaitSelection()
	sel, err := sess.Selection()
	if err != nil {
		return err
	}
	if sel.Error != "" {
		return errors.New(sel.Error)
	}
	if err := sess.Rate(int(cmd.Int("rating"))); err != nil {
		return err
	}

	entry, err := sess.AddSelected(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "Added %s (%s), rated %d/10\n", entry.Title, entry.Year, entry.UserRating)
	return err
}

func (rc *rootConfig) watchedRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("missing imdb id")
	}

	a, err := openApp(ctx, rc.cfg, rc.fs)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.list.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%s is not on the watched list", id)
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "Removed %s\n", id)
	return err
}
