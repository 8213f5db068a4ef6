package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/viennagloria/boss-task-tracker/internal/bot"
	"github.com/viennagloria/boss-task-tracker/internal/config"
	"github.com/viennagloria/boss-task-tracker/internal/crash"
	"github.com/viennagloria/boss-task-tracker/internal/handler"
	"github.com/viennagloria/boss-task-tracker/internal/logger"
	"github.com/viennagloria/boss-task-tracker/internal/notion"
	"github.com/viennagloria/boss-task-tracker/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; deployments usually inject real environment variables
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	db, err := storage.Initialize(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	pins := storage.NewPinRepository(db)
	gateway := bot.NewGateway(cfg.Slack.BotToken)

	syncer := notion.NewService(cfg)
	if syncer.Enabled() {
		logger.Info("Notion sync enabled")
	} else {
		logger.Info("Notion sync disabled (credentials not configured)")
	}

	h := handler.New(pins, gateway, syncer)
	server := bot.NewServer(cfg, h)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("HTTP server error: %v", err)
		}
	}()

	logger.Infof("Boss Task Tracker running on port %s", cfg.Server.ListenPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}

	logger.Info("Server gracefully stopped")
}
