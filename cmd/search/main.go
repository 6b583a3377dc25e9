package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pricetrack/internal/config"
	"pricetrack/internal/match"
	"pricetrack/internal/scraper"
)

// go run cmd/search/main.go -query="widget pro 256gb"
// go run cmd/search/main.go -query="widget pro 256gb" -json
func main() {
	query := flag.String("query", "", "termo de busca")
	asJSON := flag.Bool("json", false, "imprime as variantes em JSON")
	flag.Parse()

	if *query == "" {
		log.Fatal("informe -query")
	}

	cfg := config.Load()
	scraper.Configure(cfg.UserAgent, time.Duration(cfg.FetchTimeoutSeconds)*time.Second)

	listings := scraper.SearchAll(scraper.All(), *query, cfg.SearchLimit)
	if len(listings) == 0 {
		log.Fatalf("Nenhum resultado para %q", *query)
	}

	vocab := match.DefaultVocabulary()
	if cfg.VocabPath != "" {
		v, err := match.LoadVocabulary(cfg.VocabPath)
		if err != nil {
			log.Fatalf("Erro ao carregar vocabulário de %s: %v", cfg.VocabPath, err)
		}
		vocab = v
	}

	variants := match.NewResolver(vocab).Resolve(listings)

	if *asJSON {
		b, _ := json.MarshalIndent(variants, "", "  ")
		os.Stdout.Write(b)
		fmt.Println()
		return
	}

	fmt.Printf("%d resultado(s), %d variante(s) para %q:\n", len(listings), len(variants), *query)
	for _, v := range variants {
		fmt.Printf("  [%s] %s | %s $%.2f\n      %s\n", v.Key, v.Name, v.Retailer, v.Price, v.URL)
	}
}
