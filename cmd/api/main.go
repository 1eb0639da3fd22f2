package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"threatvisor/internal/analysis"
	"threatvisor/internal/gateway/config"
	"threatvisor/internal/gateway/handler"
	"threatvisor/internal/gateway/repository/modelstore"
	"threatvisor/internal/gateway/repository/reportstore"
	"threatvisor/internal/gateway/server"
	"threatvisor/internal/llm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Gemini.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	primary, err := llm.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("init gemini client: %v", err)
	}
	defer primary.Close()

	var fallback llm.Client
	if cfg.OpenAI.APIKey != "" {
		fb := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
		defer fb.Close()
		fallback = fb
		log.Printf("Fallback client: %s", fb.Name())
	}

	models := modelstore.NewFromEnv(cfg.Store.Path)
	defer models.Close()

	var reports reportstore.Store = reportstore.NewMemoryStore()
	if cfg.Report.Enabled {
		s3, s3Err := reportstore.NewS3Store(reportstore.S3Config{
			Endpoint:  cfg.Report.Endpoint,
			Region:    cfg.Report.Region,
			AccessKey: cfg.Report.AccessKey,
			SecretKey: cfg.Report.SecretKey,
			Bucket:    cfg.Report.Bucket,
			UseSSL:    cfg.Report.UseSSL,
		})
		if s3Err != nil {
			log.Printf("report s3 store unavailable, using memory: %v", s3Err)
		} else {
			reports = s3
		}
	}

	api := handler.New(analysis.New(primary, fallback), models, reports)
	srv := server.New(cfg.Port, server.NewMux(api))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
