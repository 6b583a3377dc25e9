package checker

import (
	"log"
	"sync"

	"pricetrack/internal/model"
	"pricetrack/internal/observability"
	"pricetrack/internal/repository"
	"pricetrack/internal/scraper"
)

// Change descreve um produto cujo preço mudou desde a última
// verificação.
type Change struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Retailer string  `json:"retailer"`
	OldPrice float64 `json:"old_price"`
	NewPrice float64 `json:"new_price"`
	Change   float64 `json:"change"`
}

// Summary é o resultado de uma varredura completa.
type Summary struct {
	Checked int      `json:"checked"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Changes []Change `json:"changes"`
}

// Run revisita a página de cada produto cadastrado e grava o preço
// observado. Toda verificação bem sucedida entra no histórico e
// atualiza current_price/last_checked, tenha o preço mudado ou não.
func Run(products *repository.ProductRepository, history *repository.HistoryRepository, workers int) (Summary, error) {
	all, err := products.ListProducts()
	if err != nil {
		return Summary{}, err
	}

	if workers <= 0 {
		workers = 1
	}

	results := make([]*Change, len(all))
	failures := make([]bool, len(all))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx], failures[idx] = checkOne(all[idx], products, history)
			}
		}()
	}

	for i := range all {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := Summary{Checked: len(all), Changes: []Change{}}
	for i := range all {
		if failures[i] {
			summary.Failed++
		}
		if results[i] != nil {
			summary.Changes = append(summary.Changes, *results[i])
		}
	}
	summary.Updated = len(summary.Changes)

	return summary, nil
}

func checkOne(p model.Product, products *repository.ProductRepository, history *repository.HistoryRepository) (*Change, bool) {
	retailer, ok := scraper.ForURL(p.URL)
	if !ok {
		log.Printf("[Checker] Nenhum varejista conhecido para %s", p.URL)
		return nil, false
	}

	listing, err := retailer.Listing(p.URL)
	if err != nil {
		log.Printf("[Checker] Falha ao verificar %s: %v", p.Name, err)
		return nil, true
	}

	if err := history.AddPoint(p.ID, listing.Price); err != nil {
		log.Printf("[Checker] Falha ao gravar histórico de %s: %v", p.Name, err)
		return nil, true
	}
	if err := products.UpdatePrice(p.ID, listing.Price); err != nil {
		log.Printf("[Checker] Falha ao atualizar preço de %s: %v", p.Name, err)
		return nil, true
	}

	observability.PriceChecksTotal.Inc()

	if listing.Price != p.CurrentPrice {
		log.Printf("[Checker] %s (%s): %.2f -> %.2f", p.Name, p.Retailer, p.CurrentPrice, listing.Price)
		return &Change{
			ID:       p.ID,
			Name:     p.Name,
			Retailer: p.Retailer,
			OldPrice: p.CurrentPrice,
			NewPrice: listing.Price,
			Change:   listing.Price - p.CurrentPrice,
		}, false
	}

	return nil, false
}
