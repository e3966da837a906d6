package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fireplace_bridge/docs"
	"fireplace_bridge/internal/config"
	"fireplace_bridge/internal/device"
	"fireplace_bridge/internal/handlers"
	"fireplace_bridge/internal/logger"
	"fireplace_bridge/internal/metrics"
	"fireplace_bridge/internal/repository"
	"fireplace_bridge/internal/server"
	"fireplace_bridge/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       Fireplace Bridge API
// @version                     1.0
// @description                 Polls a bio-ethanol fireplace over its HTTP/XML interface and exposes normalized state and controls.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml + FIREPLACE_* env
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// open DB
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	client, err := device.NewClient(cfg.Device.Address, cfg.Device.RequestTimeout)
	if err != nil {
		log.Fatalw("invalid device address", "err", err, "address", cfg.Device.Address)
	}

	// wire dependencies
	recorder := metrics.NewRecorder()
	repos := repository.NewRepository(db)
	services := service.NewService(repos, client, recorder, log, cfg.Auth)
	apiHandler := handlers.NewHandler(services, recorder.Handler(), log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("polling fireplace",
		"address", client.BaseURL(),
		"interval", cfg.Device.PollInterval,
		"timeout", cfg.Device.RequestTimeout,
	)
	go services.Poller.Run(ctx, cfg.Device.PollInterval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the poller
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
