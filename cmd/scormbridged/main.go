// Command scormbridged is the long-running package manager daemon. It owns
// the package database and serves the HTTP API for uploads, package
// inspection, and connector downloads.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"scormbridge/internal/config"
	"scormbridge/internal/daemon"
	"scormbridge/internal/logging"
	"scormbridge/internal/server"
	"scormbridge/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open package store", logging.Error(err))
		return
	}

	srv := server.New(cfg, st, logger)
	d, err := daemon.New(cfg, st, srv, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = st.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("scormbridged shutting down")
}
