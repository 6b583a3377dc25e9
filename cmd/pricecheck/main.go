package main

import (
	"flag"
	"log"
	"time"

	"pricetrack/internal/checker"
	"pricetrack/internal/config"
	"pricetrack/internal/db"
	"pricetrack/internal/repository"
	"pricetrack/internal/scraper"
)

// go run cmd/pricecheck/main.go -workers=5
func main() {
	workers := flag.Int("workers", 0, "verificações simultâneas (0 usa o valor da configuração)")
	flag.Parse()

	cfg := config.Load()
	if *workers <= 0 {
		*workers = cfg.WorkerCount
	}

	pool, err := db.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no Postgres (pgxpool): %v", err)
	}
	defer pool.Close()

	scraper.Configure(cfg.UserAgent, time.Duration(cfg.FetchTimeoutSeconds)*time.Second)

	products := &repository.ProductRepository{DB: pool}
	history := &repository.HistoryRepository{DB: pool}

	summary, err := checker.Run(products, history, *workers)
	if err != nil {
		log.Fatalf("Erro na varredura de preços: %v", err)
	}

	log.Printf("Varredura concluída: %d verificado(s), %d alterado(s), %d falha(s)",
		summary.Checked, summary.Updated, summary.Failed)
	for _, ch := range summary.Changes {
		log.Printf("  %s (%s): %.2f -> %.2f", ch.Name, ch.Retailer, ch.OldPrice, ch.NewPrice)
	}
}
