package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/soc-portfolio/internal/auth"
	"github.com/Zachkp/soc-portfolio/internal/config"
	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/logger"
	"github.com/Zachkp/soc-portfolio/internal/mailer"
	"github.com/Zachkp/soc-portfolio/internal/ratelimit"
	"github.com/Zachkp/soc-portfolio/internal/scan"
	"github.com/Zachkp/soc-portfolio/internal/server"
	"github.com/Zachkp/soc-portfolio/internal/store"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

const (
	shutdownTimeout = 10 * time.Second
	eventBuffer     = 256
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE:  runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func scanConfig(cfg config.Config) scan.Config {
	return scan.Config{Interval: cfg.Scan.Interval, Step: cfg.Scan.Step, Settle: cfg.Scan.Settle}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.App.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log := logger.NewZapLogger(cfg.App.Env)
	defer func() { _ = log.Sync() }()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Admin.Password == "admin123" {
		log.Warn("using default admin password, set ADMIN_PASSWORD")
	}
	if !cfg.SMTPConfigured() {
		log.Warn("SMTP credentials not configured, contact form will report errors")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DB.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	limiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}

	jwtSvc, err := auth.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.TokenLifespan)
	if err != nil {
		return err
	}

	recorder := store.NewRecorder(st, log, eventBuffer)
	views := view.NewRegistry(view.Options{Scan: scanConfig(cfg), Observer: recorder}, cfg.Views.IdleTTL)

	srv, err := server.New(server.Deps{
		Config:    cfg,
		Log:       log,
		Views:     views,
		Portfolio: content.Default(),
		Store:     st,
		Visits:    recorder,
		Mailer: mailer.NewSMTP(mailer.SMTPConfig{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			To:   cfg.SMTP.To,
		}),
		Limiter: limiter,
		JWT:     jwtSvc,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Event streams end once their views are gone.
	httpSrv.RegisterOnShutdown(views.Close)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("portfolio server starting", zap.String("addr", httpSrv.Addr), zap.String("env", cfg.App.Env))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return views.Run(gCtx, cfg.Views.SweepInterval) })
	g.Go(func() error { return recorder.Run(gCtx) })
	g.Go(func() error { return runPrivacyCleanup(gCtx, st, cfg, log) })
	if mem, ok := limiter.(*ratelimit.Memory); ok {
		g.Go(func() error { return runLimiterCleanup(gCtx, mem, cfg.RateLimit.ContactWindow) })
	}

	err = g.Wait()
	log.Info("server stopped")
	return err
}

// newLimiter uses Redis when configured so limits hold across instances.
func newLimiter(ctx context.Context, cfg config.Config, log logger.Logger) (ratelimit.Limiter, error) {
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemory(cfg.RateLimit.ContactLimit, cfg.RateLimit.ContactWindow), nil
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		return nil, err
	}
	log.Info("rate limiting via redis", zap.String("addr", cfg.Redis.Addr))
	return ratelimit.NewRedis(client, "portfolio:ratelimit", cfg.RateLimit.ContactLimit, cfg.RateLimit.ContactWindow), nil
}

// runPrivacyCleanup deletes expired visitor rows at startup and then on
// every interval.
func runPrivacyCleanup(ctx context.Context, st *store.Store, cfg config.Config, log logger.Logger) error {
	ticker := time.NewTicker(cfg.Privacy.CleanupInterval)
	defer ticker.Stop()
	for {
		removed, err := server.CleanupVisitors(ctx, st, cfg.Privacy.Retention, time.Now())
		switch {
		case err != nil && ctx.Err() == nil:
			log.Error("privacy cleanup failed", err)
		case removed > 0:
			log.Info("privacy cleanup removed old visitor records", zap.Int64("removed", removed))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func runLimiterCleanup(ctx context.Context, mem *ratelimit.Memory, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mem.Cleanup()
		}
	}
}
