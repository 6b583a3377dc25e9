package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pricetrack/internal/api"
	"pricetrack/internal/config"
	"pricetrack/internal/db"
	"pricetrack/internal/match"
	"pricetrack/internal/observability"
	"pricetrack/internal/repository"
	"pricetrack/internal/scraper"
	"pricetrack/internal/semantic"
	"pricetrack/internal/session"
)

func main() {
	cfg := config.Load()

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no Postgres: %v", err)
	}
	if err := repository.InitSchema(sqlDB); err != nil {
		log.Fatalf("Erro ao criar o esquema: %v", err)
	}
	sqlDB.Close()

	pool, err := db.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no Postgres (pgxpool): %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	vocab := match.DefaultVocabulary()
	if cfg.VocabPath != "" {
		vocab, err = match.LoadVocabulary(cfg.VocabPath)
		if err != nil {
			log.Fatalf("Erro ao carregar vocabulário de %s: %v", cfg.VocabPath, err)
		}
	}

	matcher, err := match.NewMatcher(vocab, match.Config{
		SimilarityThreshold: cfg.SimilarityThreshold,
		SignificantTokenLen: cfg.SignificantTokenLen,
	})
	if err != nil {
		log.Fatalf("Configuração inválida do matcher: %v", err)
	}

	scraper.Configure(cfg.UserAgent, time.Duration(cfg.FetchTimeoutSeconds)*time.Second)
	observability.Start(cfg.MetricsPort)

	handler := &api.Handler{
		Groups:      &repository.GroupRepository{DB: pool},
		Products:    &repository.ProductRepository{DB: pool},
		History:     &repository.HistoryRepository{DB: pool},
		Sessions:    &session.PreviewStore{Client: redisClient},
		Resolver:    match.NewResolver(vocab),
		Matcher:     matcher,
		Suggester:   semantic.New(cfg.OpenAIKey),
		Retailers:   scraper.All(),
		SearchLimit: cfg.SearchLimit,
		Workers:     cfg.WorkerCount,
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Router(cfg.AllowedOrigins),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("API de rastreamento de preços rodando :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Erro no servidor HTTP: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Sinal de desligamento recebido")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Erro no desligamento do servidor: %v", err)
	}

	log.Println("Desligamento concluído")
}
