package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"pricetrack/internal/compare"
	"pricetrack/internal/model"
	"pricetrack/internal/observability"
	"pricetrack/internal/scraper"
	"pricetrack/internal/semantic"
)

type addedProduct struct {
	ID       int64   `json:"id"`
	GroupID  int64   `json:"group_id"`
	Retailer string  `json:"retailer"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
}

type suggestRequest struct {
	SearchID   string `json:"search_id"`
	VariantKey string `json:"variant_key"`
}

// suggestProducts roda o matcher para a variante escolhida dentro da
// sessão e complementa com sugestões semânticas de varejistas que o
// matcher não cobriu. Sugestão só vira produto via add-selected.
func (h *Handler) suggestProducts(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	preview, chosen, ok := h.loadChoice(c, req.SearchID, req.VariantKey)
	if !ok {
		return
	}

	matched := h.Matcher.Match(chosen, preview.Listings)
	if chosen.Model == "" && len(matched) > 0 {
		observability.FuzzyMatchesTotal.Inc()
	}
	if matched == nil {
		matched = []model.RawListing{}
	}

	c.JSON(http.StatusOK, gin.H{
		"matched":     matched,
		"suggestions": h.suggest(chosen, matched, preview.Listings),
	})
}

// suggest devolve candidatos semanticamente próximos entre os listings
// que o matcher não aceitou, apenas de varejistas ainda sem
// representante. Matcher cobrindo mais de um varejista = nada a sugerir.
func (h *Handler) suggest(chosen model.RawListing, matched, all []model.RawListing) []semantic.Suggestion {
	suggestions := []semantic.Suggestion{}
	if h.Suggester == nil {
		return suggestions
	}

	matchedURL := make(map[string]bool, len(matched))
	matchedRetailer := make(map[string]bool)
	for _, m := range matched {
		matchedURL[m.URL] = true
		matchedRetailer[m.Retailer] = true
	}
	if len(matchedRetailer) > 1 {
		return suggestions
	}

	var candidates []model.RawListing
	for _, l := range all {
		if matchedURL[l.URL] || matchedRetailer[l.Retailer] || l.Retailer == chosen.Retailer {
			continue
		}
		candidates = append(candidates, l)
	}
	if len(candidates) == 0 {
		return suggestions
	}

	ranked, err := h.Suggester.Rank(chosen.Name, candidates)
	if err != nil {
		log.Printf("[API] Sugestões semânticas indisponíveis: %v", err)
		return suggestions
	}
	if ranked != nil {
		suggestions = ranked
	}

	return suggestions
}

type addSelectedRequest struct {
	SearchID    string   `json:"search_id"`
	VariantKey  string   `json:"variant_key"`
	Category    string   `json:"category"`
	IncludeURLs []string `json:"include_urls"`
}

// addSelected comita a variante escolhida de uma sessão de preview.
// include_urls adiciona listings confirmados um a um pelo cliente, a
// URL precisa existir na sessão; nada de fora dela entra no banco.
func (h *Handler) addSelected(c *gin.Context) {
	var req addSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	preview, chosen, ok := h.loadChoice(c, req.SearchID, req.VariantKey)
	if !ok {
		return
	}

	category := req.Category
	if category == "" {
		category = preview.Category
	}
	if !validateCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	matched := h.Matcher.Match(chosen, preview.Listings)
	if chosen.Model == "" && len(matched) > 0 {
		observability.FuzzyMatchesTotal.Inc()
	}

	commit := append([]model.RawListing{}, matched...)
	if len(commit) == 0 {
		// o escolhido entra mesmo quando só ele representa a variante
		commit = append(commit, chosen)
	}

	byURL := make(map[string]model.RawListing, len(preview.Listings))
	for _, l := range preview.Listings {
		byURL[l.URL] = l
	}
	for _, u := range req.IncludeURLs {
		l, found := byURL[u]
		if !found {
			log.Printf("[API] include_url fora da sessão, ignorando: %s", u)
			continue
		}
		commit = append(commit, l)
	}

	groupID, added, err := h.commitGroup(chosen, commit, category)
	if err != nil {
		log.Printf("[API] Falha ao gravar grupo para %q: %v", chosen.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add products"})
		return
	}
	if len(added) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Nothing to commit"})
		return
	}

	log.Printf("[API] Grupo %d: %d produto(s) gravado(s)", groupID, len(added))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"group_id": groupID,
		"added":    len(added),
		"products": added,
	})
}

type addProductRequest struct {
	Query    string `json:"query"`
	Model    string `json:"model"`
	Category string `json:"category"`
}

// addProduct é o fluxo completo numa chamada só: busca, resolve
// variantes, escolhe uma (pelo código de modelo quando informado,
// senão a primeira), casa e comita.
func (h *Handler) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	query := sanitizeInput(req.Query)
	if !validateQuery(query) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}
	modelCode := sanitizeInput(req.Model)

	category := req.Category
	if category == "" {
		category = defaultCategory
	}
	if !validateCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	log.Printf("[API] Adicionando produto: %q", query)
	observability.SearchesTotal.Inc()

	listings := scraper.SearchAll(h.Retailers, query, h.SearchLimit)
	variants := h.Resolver.Resolve(listings)
	if len(variants) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in any retailer", "searched": query})
		return
	}

	chosen := variants[0].RawListing
	if modelCode != "" {
		for _, v := range variants {
			if strings.EqualFold(v.Model, modelCode) {
				chosen = v.RawListing
				break
			}
		}
	}

	matched := h.Matcher.Match(chosen, listings)
	if chosen.Model == "" && len(matched) > 0 {
		observability.FuzzyMatchesTotal.Inc()
	}
	if len(matched) == 0 {
		matched = []model.RawListing{chosen}
	}

	groupID, added, err := h.commitGroup(chosen, matched, category)
	if err != nil {
		log.Printf("[API] Falha ao gravar grupo para %q: %v", chosen.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product"})
		return
	}
	if len(added) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Nothing to commit"})
		return
	}

	cheapest := added[0]
	mostExpensive := added[0]
	for _, a := range added[1:] {
		if a.Price < cheapest.Price {
			cheapest = a
		}
		if a.Price > mostExpensive.Price {
			mostExpensive = a
		}
	}

	log.Printf("[API] Produto adicionado: %d varejista(s)", len(added))

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"found":          len(added),
		"group_id":       groupID,
		"products":       added,
		"cheapest":       cheapest,
		"most_expensive": mostExpensive,
		"price_range":    mostExpensive.Price - cheapest.Price,
		"savings":        mostExpensive.Price - cheapest.Price,
	})
}

// commitGroup grava o conjunto final como um grupo: um listing por
// varejista (o primeiro visto vence), grupo derivado do listing
// escolhido, ponto inicial de histórico por produto e backfill do
// PriceSpy em segundo plano.
func (h *Handler) commitGroup(chosen model.RawListing, listings []model.RawListing, category string) (int64, []addedProduct, error) {
	groupID, created, err := h.Groups.GetOrCreateGroup(chosen.Name, chosen.Model, chosen.Brand, category)
	if err != nil {
		return 0, nil, err
	}
	if created {
		observability.GroupsCreatedTotal.Inc()
	}

	added := []addedProduct{}
	for _, l := range collapsePerRetailer(listings) {
		id, inserted, err := h.Products.AddProduct(groupID, l, category)
		if err != nil {
			log.Printf("[API] Falha ao gravar %s (%s): %v", l.Name, l.Retailer, err)
			continue
		}
		if !inserted {
			continue
		}

		if err := h.History.AddPoint(id, l.Price); err != nil {
			log.Printf("[API] Falha ao gravar ponto inicial do produto %d: %v", id, err)
		}

		added = append(added, addedProduct{
			ID:       id,
			GroupID:  groupID,
			Retailer: l.Retailer,
			Name:     l.Name,
			Price:    l.Price,
			URL:      l.URL,
		})
	}

	if len(added) > 0 {
		go h.runBackfill(groupID)
	}

	return groupID, added, nil
}

func collapsePerRetailer(listings []model.RawListing) []model.RawListing {
	seenRetailer := make(map[string]bool)
	seenURL := make(map[string]bool)

	var out []model.RawListing
	for _, l := range listings {
		if seenRetailer[l.Retailer] || seenURL[l.URL] {
			continue
		}
		seenRetailer[l.Retailer] = true
		seenURL[l.URL] = true
		out = append(out, l)
	}

	return out
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.Products.ListProducts()
	if err != nil {
		log.Printf("[API] Falha ao listar produtos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	c.JSON(http.StatusOK, products)
}

func (h *Handler) productHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 {
		days = 30
	}

	points, err := h.History.History(id, days)
	if err != nil {
		log.Printf("[API] Falha ao buscar histórico do produto %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}
	if points == nil {
		points = []model.PricePoint{}
	}

	resp := gin.H{
		"product_id": id,
		"days":       days,
		"points":     points,
	}
	if stats, ok := compare.SeriesStats(points); ok {
		resp["stats"] = stats
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.Products.DeleteProduct(id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		log.Printf("[API] Falha ao remover produto %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	log.Printf("[API] Produto %d removido", id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Product %d deleted", id),
	})
}
