package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pricetrack/internal/match"
	"pricetrack/internal/repository"
	"pricetrack/internal/scraper"
	"pricetrack/internal/semantic"
	"pricetrack/internal/session"
)

// Handler agrupa as dependências dos endpoints. Suggester nil desliga
// as sugestões semânticas; o resto é obrigatório.
type Handler struct {
	Groups    *repository.GroupRepository
	Products  *repository.ProductRepository
	History   *repository.HistoryRepository
	Sessions  *session.PreviewStore
	Resolver  *match.Resolver
	Matcher   *match.Matcher
	Suggester *semantic.Suggester
	Retailers []scraper.Retailer

	SearchLimit int
	Workers     int
}

func (h *Handler) Router(allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	api := r.Group("/api")
	{
		api.GET("/health", h.health)

		api.POST("/search-preview", h.searchPreview)

		api.GET("/products", h.listProducts)
		api.POST("/products", h.addProduct)
		api.POST("/products/suggest", h.suggestProducts)
		api.POST("/products/add-selected", h.addSelected)
		api.GET("/products/:id/history", h.productHistory)
		api.DELETE("/products/:id", h.deleteProduct)

		api.GET("/groups", h.listGroups)
		api.GET("/groups/:id", h.getGroup)
		api.GET("/groups/:id/history", h.groupHistory)
		api.POST("/groups/:id/backfill", h.backfillGroup)
		api.DELETE("/groups/:id", h.deleteGroup)

		api.POST("/check-prices", h.checkPrices)
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	products, _ := h.Products.ListProducts()
	groups, _ := h.Groups.ListGroups()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"products":  len(products),
		"groups":    len(groups),
	})
}
