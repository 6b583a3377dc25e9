package scraper

import (
	"log"
	"strings"
	"sync"

	"pricetrack/internal/model"
	"pricetrack/internal/observability"
)

// SearchAll consulta todos os varejistas em paralelo e devolve as
// listagens já passadas pela higiene. Varejista que falha contribui
// com zero listagens e não bloqueia os demais; a ordem dos varejistas
// no resultado é estável.
func SearchAll(retailers []Retailer, query string, perRetailer int) []model.RawListing {
	results := make([][]model.RawListing, len(retailers))
	var wg sync.WaitGroup

	for i, r := range retailers {
		wg.Add(1)
		go func(i int, r Retailer) {
			defer wg.Done()
			results[i] = searchRetailer(r, query, perRetailer)
		}(i, r)
	}
	wg.Wait()

	var all []model.RawListing
	for _, batch := range results {
		all = append(all, batch...)
	}

	return FilterListings(all, query)
}

func searchRetailer(r Retailer, query string, limit int) []model.RawListing {
	urls, err := r.Search(query)
	if err != nil {
		log.Printf("[Search] %s falhou: %v", r.Name(), err)
		observability.ScrapeErrorsTotal.Inc()
		return nil
	}
	if len(urls) == 0 {
		log.Printf("[Search] %s: nenhum resultado para %q", r.Name(), query)
		return nil
	}
	if limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}

	keywords := queryKeywords(query)

	var listings []model.RawListing
	for _, url := range urls {
		listing, err := r.Listing(url)
		if err != nil {
			log.Printf("[Search] %s: erro ao coletar %s: %v", r.Name(), url, err)
			observability.ScrapeErrorsTotal.Inc()
			continue
		}
		if !relevant(listing.Name, keywords) {
			log.Printf("[Search] %s: ignorando resultado irrelevante: %s", r.Name(), listing.Name)
			continue
		}
		listings = append(listings, listing)
		observability.ListingsScrapedTotal.Inc()
	}

	log.Printf("[Search] %s: %d listagem(ns) para %q", r.Name(), len(listings), query)
	return listings
}

func queryKeywords(query string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = true
	}
	return words
}

// relevant exige ao menos uma palavra da consulta no nome do produto.
func relevant(name string, keywords map[string]bool) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if keywords[w] {
			return true
		}
	}
	return false
}
