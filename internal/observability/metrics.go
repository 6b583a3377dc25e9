package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetrack_searches_total",
			Help: "Total de buscas de produto recebidas",
		},
	)
	ListingsScrapedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetrack_listings_scraped_total",
			Help: "Total de listagens coletadas das lojas",
		},
	)
	ScrapeErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetrack_scrape_errors_total",
			Help: "Total de falhas de coleta",
		},
	)
	FuzzyMatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetrack_fuzzy_matches_total",
			Help: "Total de grupos casados pela estratégia fuzzy",
		},
	)
	PriceChecksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetrack_price_checks_total",
			Help: "Total de verificações de preço executadas",
		},
	)
	GroupsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetrack_groups_created_total",
			Help: "Total de grupos de produto criados",
		},
	)
	BackfillPointsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetrack_backfill_points_total",
			Help: "Total de pontos de histórico importados do PriceSpy",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(
		SearchesTotal,
		ListingsScrapedTotal,
		ScrapeErrorsTotal,
		FuzzyMatchesTotal,
		PriceChecksTotal,
		GroupsCreatedTotal,
		BackfillPointsTotal,
	)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
