package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/c14220110/kasirung-backend/config"
	"github.com/c14220110/kasirung-backend/internal/kosan/jobs"
	kosanServices "github.com/c14220110/kasirung-backend/internal/kosan/services"
	"github.com/c14220110/kasirung-backend/internal/routes"
	"github.com/c14220110/kasirung-backend/pkg/logger"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
	"github.com/c14220110/kasirung-backend/ws"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Menjalankan HTTP server, websocket hub, dan scheduler tagihan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	cfg := config.LoadConfig()
	l := logger.New(cfg.App.Env, cfg.App.Name)
	loc := cfg.Location()

	// nominal uang dikirim sebagai angka JSON, bukan string
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mariadb.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	l.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("Terhubung ke database")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	sessions := session.NewStore(rdb, cfg.Auth.SessionTTL)
	if err := sessions.Ping(ctx); err != nil {
		return errors.Wrap(err, "gagal terhubung ke redis")
	}

	hub := ws.NewHub(l.With().Str("component", "ws").Logger())
	go hub.Run(ctx)

	tagihanKosan := kosanServices.NewTagihanService(db, loc, hub)
	if cfg.Jobs.Enabled {
		scheduler, err := jobs.NewScheduler(cfg.Jobs.TagihanCron, loc,
			&jobs.TagihanJob{Service: tagihanKosan, Logger: l}, l)
		if err != nil {
			return errors.Wrapf(err, "jadwal cron %q tidak valid", cfg.Jobs.TagihanCron)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		l.Info().Str("cron", cfg.Jobs.TagihanCron).Msg("Scheduler tagihan kosan aktif")
	}

	e := routes.New(routes.Deps{
		Config:       cfg,
		DB:           db,
		Sessions:     sessions,
		Hub:          hub,
		Logger:       l,
		TagihanKosan: tagihanKosan,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("port", cfg.Server.Port).Msg("Server berjalan")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server berhenti")
	case <-ctx.Done():
	}

	l.Info().Msg("Menghentikan server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "gagal menghentikan server")
	}
	l.Info().Msg("Server berhenti")
	return nil
}
