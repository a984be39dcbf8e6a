package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syl2042/contentmaestro/internal/auth"
	authmw "github.com/syl2042/contentmaestro/internal/auth/middleware"
	"github.com/syl2042/contentmaestro/internal/bootstrap"
	"github.com/syl2042/contentmaestro/internal/storage/postgres"
	"github.com/syl2042/contentmaestro/internal/storage/redis"
)

var (
	addr    string
	migrate bool
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to :$PORT)")
	serveCmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the schema before serving")
}

func runServe(parent context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info().Msg("schema applied")
	}

	pool, err := bootstrap.OpenPool(ctx, &cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var verifier authmw.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return err
		}
		verifier = client
		log.Info().Msg("firebase authentication enabled")
	} else {
		log.Warn().Msg("firebase not configured, trusting X-User-Id")
	}

	app := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Config:      cfg,
		SQLDB:       db,
		Pool:        pool,
		Redis:       rdb,
		Verifier:    verifier,
		Logger:      log,
	})

	scheduler := bootstrap.NewScheduler(app, cfg.App.CollectionIdleTTL, log)
	if err := scheduler.Start(); err != nil {
		return err
	}

	if addr == "" {
		addr = ":" + cfg.Server.Port
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
