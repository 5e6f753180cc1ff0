package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"csflix/internal/common/pagination"
	"csflix/internal/config"
	hhttp "csflix/internal/handler/http"
	harticle "csflix/internal/handler/http/article"
	hauth "csflix/internal/handler/http/auth"
	"csflix/internal/handler/http/middleware"
	"csflix/internal/handler/http/requestid"
	"csflix/internal/handler/http/view"
	"csflix/internal/infra/adapter/persistence/postgres"
	"csflix/internal/infra/adapter/persistence/sqlite"
	"csflix/internal/infra/db"
	"csflix/internal/infra/importer"
	"csflix/internal/infra/profanity"
	"csflix/internal/infra/worker"
	"csflix/internal/observability/tracing"
	"csflix/internal/repository"
	"csflix/internal/resilience/circuitbreaker"
	"csflix/internal/resilience/retry"
	authsvc "csflix/internal/service/auth"
	artUC "csflix/internal/usecase/article"
	pkgconfig "csflix/pkg/config"
)

type repositories struct {
	articles repository.ArticleRepository
	users    repository.UserRepository
}

func newRepositories(q db.Querier, dialect db.Dialect) repositories {
	if dialect == db.Postgres {
		return repositories{articles: postgres.NewArticleRepo(q), users: postgres.NewUserRepo(q)}
	}
	return repositories{articles: sqlite.NewArticleRepo(q), users: sqlite.NewUserRepo(q)}
}

func serveCmd(flags *dbFlags, logger *slog.Logger) *cobra.Command {
	var securityPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, flags, securityPath, logger)
		},
	}
	cmd.Flags().StringVar(&securityPath, "security-config",
		pkgconfig.GetEnvString("SECURITY_CONFIG", ""), "YAML file with password, session and comment settings")
	return cmd
}

func serve(ctx context.Context, flags *dbFlags, securityPath string, logger *slog.Logger) error {
	serverCfg, err := pkgconfig.LoadServerConfig()
	if err != nil {
		return err
	}
	limitsCfg := pkgconfig.LoadLimitsConfig()
	cspCfg := pkgconfig.LoadCSPConfig()
	refreshCfg, err := worker.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	watcher, err := config.NewWatcher(securityPath, logger)
	if err != nil {
		return fmt.Errorf("load security config: %w", err)
	}
	security := watcher.Current()
	secret, err := security.SessionSecret()
	if err != nil {
		return err
	}

	shutdownTracing := tracing.Init()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	database, dialect, err := openDatabase(ctx, flags)
	if err != nil {
		return err
	}
	defer closeDatabase(logger, database)

	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	repos := newRepositories(breaker, dialect)

	seeder := &importer.Importer{Repo: repos.articles, Logger: logger}
	if res, err := seeder.SeedIfEmpty(ctx); err != nil {
		return fmt.Errorf("seed catalogue: %w", err)
	} else if res.Imported > 0 {
		logger.Info("seeded empty catalogue", slog.Int("movies", res.Imported))
	}

	svc := artUC.NewService(repos.articles, pagination.LoadFromEnv().PageSize, profanity.New(profanityOptions(security)))
	if err := retry.WithBackoff(ctx, retry.DefaultConfig(), "initial index build", svc.SplitMovies); err != nil {
		// The first listing request retries the split.
		logger.Warn("initial index build failed", slog.Any("error", err))
	}
	utilities := &artUC.Utilities{Repo: repos.articles, SelectedCount: security.Site.SelectedArticles}

	auth := authsvc.NewService(repos.users, passwordPolicy(security))
	watcher.OnChange(func(c *config.SecurityConfig) {
		auth.SetPolicy(passwordPolicy(c))
		logger.Info("password policy reloaded", slog.Int("min_length", c.MinPasswordLength()))
	})

	renderer, err := view.New(logger)
	if err != nil {
		return err
	}
	sessions, err := hauth.NewSessionManager(hauth.SessionConfig{
		CookieName: security.Security.Session.CookieName,
		Secret:     secret,
		TTL:        security.SessionExpiry(),
		Secure:     serverCfg.SecureCookies,
	})
	if err != nil {
		return err
	}

	extractor, err := middleware.ExtractorFromEnv()
	if err != nil {
		return err
	}
	commentLimiter := middleware.NewKeyedLimiter("comment",
		security.Security.Comments.RatePerMinute, security.Security.Comments.Burst, limitsCfg.IdleTTL)
	loginLimiter := middleware.NewKeyedLimiter("login",
		limitsCfg.LoginPerMinute, limitsCfg.LoginBurst, limitsCfg.IdleTTL)

	mux := http.NewServeMux()
	harticle.Register(mux, svc, utilities, renderer, commentLimiter, logger)
	hauth.Register(mux, &hauth.Handler{Auth: auth, Sessions: sessions, View: renderer, Logger: logger},
		loginLimiter.Middleware(extractor, http.MethodPost))
	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:      breaker,
		Stats:   database.Stats,
		Breaker: breaker,
		Index:   svc.Index,
		Version: pkgconfig.GetEnvString("VERSION", "dev"),
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: breaker, Breaker: breaker})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	securityHeaders := hhttp.Middleware(func(next http.Handler) http.Handler { return next })
	if cspCfg.Enabled {
		securityHeaders = middleware.SecurityHeaders(middleware.DefaultCSP, cspCfg.ReportOnly)
	}

	// Outermost first.
	handler := hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		securityHeaders,
		hhttp.InputValidation(serverCfg.MaxBodyBytes),
		hhttp.Timeout(serverCfg.RequestTimeout),
		sessions.Middleware,
	)

	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Error("security config watcher stopped", slog.Any("error", err))
		}
	}()
	go runCleanup(ctx, limitsCfg.CleanupInterval, commentLimiter, loginLimiter)

	if refreshCfg.Enabled() {
		scheduler, err := worker.NewScheduler("index_refresh", refreshCfg, svc.SplitMovies, logger)
		if err != nil {
			return err
		}
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: serverCfg.ReadHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", serverCfg.Addr),
			slog.String("driver", string(dialect)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func passwordPolicy(c *config.SecurityConfig) authsvc.PasswordPolicy {
	return authsvc.PasswordPolicy{MinLength: c.MinPasswordLength(), WeakPasswords: c.WeakPasswords()}
}

func profanityOptions(c *config.SecurityConfig) profanity.Options {
	return profanity.Options{
		Extra:   c.Security.Comments.ExtraProfanities,
		Allowed: c.Security.Comments.AllowedWords,
	}
}

// runCleanup drops idle limiter buckets until ctx is done.
func runCleanup(ctx context.Context, interval time.Duration, limiters ...*middleware.KeyedLimiter) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, l := range limiters {
				l.Cleanup()
			}
		}
	}
}
