// Command nomicd adjudicates the nomic game: it listens for webhook
// events republished on Redis, tallies votes from eligible players, and
// announces game activity to the chat channel.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gogithub "github.com/google/go-github/v72/github"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/okian/nomic/internal/adapters/announce"
	"github.com/okian/nomic/internal/adapters/board"
	"github.com/okian/nomic/internal/adapters/bus"
	"github.com/okian/nomic/internal/adapters/roster"
	"github.com/okian/nomic/internal/adapters/tally"
	"github.com/okian/nomic/internal/app"
	"github.com/okian/nomic/internal/config"
	"github.com/okian/nomic/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Shared clients: one Redis connection pool for the tally store and
	// one dedicated to the bus subscription, plus the GitHub API client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error(ctx, "closing redis client", logger.Error(err))
		}
	}()
	subRdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		if err := subRdb.Close(); err != nil {
			log.Error(ctx, "closing redis subscriber", logger.Error(err))
		}
	}()

	timeout := time.Duration(cfg.RequestTimeoutMS) * time.Millisecond
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken}))
	httpClient.Timeout = timeout
	gh := gogithub.NewClient(httpClient)

	// Wire the engine from its collaborators.
	engine := app.New(
		roster.New(gh, cfg.Org, cfg.Repo, roster.WithDenylist(cfg.DenylistSet())),
		tally.New(rdb, cfg.Org, cfg.Repo),
		board.New(cfg.Org, cfg.Repo, cfg.RepoPath, board.WithHTTPClient(&http.Client{Timeout: timeout})),
		announce.NewSlack(cfg.SlackToken, cfg.Channel),
	)

	listener := bus.New(subRdb, cfg.BusPrefix, engine)
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error(ctx, "closing bus listener", logger.Error(err))
		}
	}()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- listener.Listen(ctx)
	}()

	// Operational HTTP surface: metrics and health only.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server failed", logger.Error(err))
		}
	}()

	log.Info(ctx, "nomicd started",
		logger.String("org", cfg.Org),
		logger.String("repo", cfg.Repo),
		logger.String("addr", cfg.Addr),
	)

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "bus listener exited", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "http shutdown failed", logger.Error(err))
	}
	log.Info(context.Background(), "nomicd stopped")
}
