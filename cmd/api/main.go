package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"velocity/internal/app"
	"velocity/internal/config"
	"velocity/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	app.SetupLogging(cfg, os.Stdout)

	if cfg.Sandbox.Binary == "" {
		bin, err := exec.LookPath("velocity")
		if err != nil {
			log.Fatalf("velocity binary not found, set VELOCITY_BIN: %v", err)
		}
		cfg.Sandbox.Binary = bin
	}

	pipeline, err := app.NewPipeline(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error building pipeline: %v", err)
	}
	defer pipeline.Close()

	var history handler.HistoryStore
	if pipeline.Stores.History != nil {
		history = pipeline.Stores.History
	}
	insightHandler := handler.NewInsightHandler(pipeline.Gatherer, pipeline.Stores.Cache, history)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/insights/:ticker", insightHandler.GetInsights)
	r.GET("/insights/:ticker/digest", insightHandler.GetDigest)
	r.GET("/insights/:ticker/history", insightHandler.GetHistory)
	r.GET("/health", insightHandler.GetHealth)

	err = r.Run(":" + strconv.Itoa(cfg.Server.Port))
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
