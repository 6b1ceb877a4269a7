package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"noteria/backend/broker"
	"noteria/backend/middleware"
	"noteria/backend/routes"
	"noteria/backend/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, event dispatcher and live update hub",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(context.Background())

	b := broker.Connect(cfg.NATSURL, logger)
	defer b.Close()

	roomService := services.NewRoomService(s, cfg.CascadeAtomic, logger.With("service", "rooms"))
	noteService := services.NewNoteService(s, logger.With("service", "notes"))
	authService := services.NewAuthService(s, cfg.JWTSecret, cfg.JWTExpirationHours, logger.With("service", "auth"))
	dispatcher := services.NewEventHandlerService(s, b, cfg.EventDispatchInterval, logger.With("service", "events"))
	sweeper := services.NewOrphanSweeper(roomService, cfg.OrphanSweepInterval, logger.With("service", "sweeper"))
	hub := services.NewWebSocketService(b, middleware.OriginChecker(cfg.AllowedOrigins), logger.With("service", "websocket"))

	if err := hub.Start(ctx); err != nil {
		return err
	}
	defer hub.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(cfg, routes.Services{
		Auth:      authService,
		Rooms:     roomService,
		Notes:     noteService,
		WebSocket: hub,
	}, logger.With("component", "http"))

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server is running", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			stop()
			wg.Wait()
			return err
		}
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	stop()
	wg.Wait()
	return err
}
