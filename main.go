package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "intercity/internal/config"
	intdb "intercity/internal/db"
	"intercity/internal/events"
	router "intercity/internal/http"
	"intercity/internal/http/handlers"
	"intercity/internal/ranking"
	"intercity/internal/semantic"
	"intercity/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer intconfig.CloseDB()

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()
	if env.AutoMigrate {
		if err := intdb.EnsureSchema(bootCtx, db); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
	if env.SeedDemoData {
		if err := intdb.SeedDemoData(bootCtx, db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	provider := semantic.NewProvider(semantic.ProviderConfig{
		APIKey:     env.EmbeddingAPIKey,
		BaseURL:    env.EmbeddingBaseURL,
		Model:      env.EmbeddingModel,
		RatePerSec: env.EmbeddingRatePerSec,
		Burst:      env.EmbeddingBurst,
	})
	if !env.EmbeddingsEnabled() {
		log.Println("[SEMANTIC] no EMBEDDING_API_KEY, suggestions use substring matching only")
	}
	embedder := semantic.NewEmbedder(provider, semantic.NewLRUCache(env.EmbeddingCacheSize))
	engine := semantic.NewEngine(embedder, env.EmbeddingTimeout)

	publisher, err := events.NewPublisher(bootCtx, env.RedisURL)
	if err != nil {
		log.Printf("[EVENTS] %v, booking events disabled", err)
		publisher = events.NopPublisher{}
	}
	defer publisher.Close()

	signer := session.NewSigner(env.SessionSecret, env.SessionTTL)
	if !signer.Enabled() {
		log.Println("[SESSION] no SESSION_SECRET, POST /api/sessions will answer 503")
	}

	deps := &handlers.Deps{
		DB:              db,
		Ranker:          ranking.NewRanker(engine),
		Events:          publisher,
		Signer:          signer,
		SuggestionLimit: env.SuggestionLimit,
		MinSimilarity:   ranking.Threshold(env.SuggestionMinSimilarity),
	}

	r := router.NewRouter(env, deps)
	handlers.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
