package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/checkin/internal/api"
	"github.com/darmiel/checkin/internal/api/middleware"
	"github.com/darmiel/checkin/internal/attendance"
	"github.com/darmiel/checkin/internal/audit"
	"github.com/darmiel/checkin/internal/core"
	"github.com/darmiel/checkin/internal/identity"
	"github.com/darmiel/checkin/internal/metrics"
	"github.com/darmiel/checkin/internal/service"
	"github.com/darmiel/checkin/internal/session"
	"github.com/darmiel/checkin/internal/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the checkin server",
	Long: `Starts the HTTP server exposing /token for kiosks and /register for presenters.
Without --config a single shared kiosk session, a fixed presenter and in-memory
storage are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := f.LoadServerConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		auditor, err := audit.FromConfig(cfg.Audit)
		if err != nil {
			return fmt.Errorf("creating auditor: %w", err)
		}
		defer func() {
			if err := auditor.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close auditor")
			}
		}()

		log.Info().Str("type", cfg.Attendance.Type).Msg("Initializing attendance store...")
		recorder, err := attendance.FromConfig(cmd.Context(), cfg.Attendance)
		if err != nil {
			return fmt.Errorf("creating attendance recorder: %w", err)
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close attendance recorder")
			}
		}()

		identities, err := identity.FromConfig(cfg.Identity)
		if err != nil {
			return fmt.Errorf("creating identity resolver: %w", err)
		}
		sessions, err := session.FromConfig(cfg.Session)
		if err != nil {
			return fmt.Errorf("creating session resolver: %w", err)
		}

		var serviceOpts []service.Option
		var serverOpts []api.ServerOption
		if cfg.Metrics.Enabled {
			m := metrics.New()
			serviceOpts = append(serviceOpts, service.WithObserver(m))
			serverOpts = append(serverOpts, api.WithMetrics(m.Handler()))
			log.Info().Str("route", api.MetricsRoute).Msg("Metrics enabled")
		}
		if lister, ok := recorder.(attendance.Lister); ok {
			serverOpts = append(serverOpts, api.WithAttendance(lister))
		}
		if cfg.RateLimit.RequestsPerSecond > 0 {
			serverOpts = append(serverOpts, api.WithRateLimit(
				middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))
		}

		tokens := store.NewInMemoryTokenStore()
		issuer := service.NewTokenIssuer(tokens, auditor, serviceOpts...)
		validator := service.NewTokenValidator(
			tokens,
			recorder,
			identity.NewStaticDirectory(cfg.Presenters),
			auditor,
			serviceOpts...,
		)

		srv := api.NewServer(issuer, validator, sessions, identities, auditor, cfg.Location(), serverOpts...)

		adminKey := []byte(cfg.Admin.SigningKey)
		if len(adminKey) == 0 {
			log.Info().Msg("No admin signing key configured, admin routes are disabled")
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           srv.Routes(adminKey),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Info().
				Str("session_mode", cfg.Session.Mode).
				Str("identity", identities.Name()).
				Dur("token_ttl", core.TokenTTL).
				Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	f.bindConfigFlag(serveCmd.Flags())
}
