package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"shortlink/config"
	"shortlink/database"
	"shortlink/handlers"
	"shortlink/logging"
	"shortlink/routes"
	"shortlink/services"
)

func main() {
	cfg := config.Load()

	relay := logging.NewRelay(cfg.LogBaseURL, cfg.LogToken)
	logger := logging.New(logging.Options{Relay: relay, Stdout: cfg.LogStdout, Level: slog.LevelDebug})

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Log(context.Background(), logging.LevelFatal,
			"database connect failed", logging.PackageKey, "db", "error", err)
		os.Exit(1)
	}

	links := services.NewLinkService(db, logger)
	h := handlers.New(links, relay, logger, cfg.BaseURL)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestID(), handlers.AccessLog(logger))
	routes.Register(router, h)

	logger.Info("server started", logging.PackageKey, "route", "addr", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		logger.Log(context.Background(), logging.LevelFatal,
			"server stopped", logging.PackageKey, "route", "error", err)
		os.Exit(1)
	}
}
