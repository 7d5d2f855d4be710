// Command atelierd runs the workflow engine daemon: it opens the tracking
// store, wires the assignment resolver and orchestrator, and serves the
// control socket until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"atelier/internal/config"
	"atelier/internal/ipc"
	"atelier/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ~/.config/atelier/config.toml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A missing .env is fine; it only overlays optional values such as
	// ATELIER_NTFY_TOPIC.
	_ = godotenv.Load()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := bootstrap(cfg, logger)
	if err != nil {
		logger.Error("bootstrap daemon", logging.Error(err))
		return
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, d, logger, cancel)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		return
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("atelierd shutting down")
}
