package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pricetrack/internal/model"
	"pricetrack/internal/observability"
	"pricetrack/internal/scraper"
	"pricetrack/internal/session"
)

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

// searchPreview raspa os varejistas e devolve as variantes sem gravar
// nada. O conjunto bruto completo fica numa sessão Redis; o commit
// posterior enxerga exatamente o que o preview viu.
func (h *Handler) searchPreview(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	query := sanitizeInput(req.Query)
	if !validateQuery(query) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}

	category := req.Category
	if category == "" {
		category = defaultCategory
	}
	if !validateCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	log.Printf("[API] Pré-busca: %q (%s)", query, category)
	observability.SearchesTotal.Inc()

	listings := scraper.SearchAll(h.Retailers, query, h.SearchLimit)
	if len(listings) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No products found", "searched": query})
		return
	}

	variants := h.Resolver.Resolve(listings)

	id, err := h.Sessions.Save(&session.Preview{Query: query, Category: category, Listings: listings})
	if err != nil {
		log.Printf("[API] Falha ao salvar sessão de busca: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"search_id": id,
		"query":     query,
		"found":     len(variants),
		"variants":  variants,
	})
}

// loadChoice carrega a sessão e localiza a variante escolhida. Quando
// algo falta, escreve a resposta de erro e devolve ok=false.
func (h *Handler) loadChoice(c *gin.Context, searchID, variantKey string) (*session.Preview, model.RawListing, bool) {
	if searchID == "" || variantKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search_id and variant_key are required"})
		return nil, model.RawListing{}, false
	}

	preview, err := h.Sessions.Get(searchID)
	if err != nil || preview == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Search session expired"})
		return nil, model.RawListing{}, false
	}

	for _, v := range h.Resolver.Resolve(preview.Listings) {
		if v.Key == variantKey {
			return preview, v.RawListing, true
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found in search session"})
	return nil, model.RawListing{}, false
}
