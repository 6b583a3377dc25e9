package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"pricetrack/internal/compare"
	"pricetrack/internal/model"
	"pricetrack/internal/observability"
	"pricetrack/internal/repository"
	"pricetrack/internal/scraper"
)

func (h *Handler) listGroups(c *gin.Context) {
	// Grupos órfãos são removidos antes de listar
	if _, err := h.Groups.CleanupOrphanGroups(); err != nil {
		log.Printf("[API] Falha na limpeza de grupos órfãos: %v", err)
	}

	groups, err := h.Groups.ListGroups()
	if err != nil {
		log.Printf("[API] Falha ao listar grupos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve groups"})
		return
	}
	if groups == nil {
		groups = []repository.GroupOverview{}
	}

	c.JSON(http.StatusOK, groups)
}

func (h *Handler) getGroup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	group, err := h.Groups.GroupByID(id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		log.Printf("[API] Falha ao buscar grupo %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comparison"})
		return
	}

	products, err := h.Groups.GroupProducts(id)
	if err != nil {
		log.Printf("[API] Falha ao buscar produtos do grupo %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comparison"})
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	resp := gin.H{
		"group":          group,
		"products":       products,
		"retailer_count": len(products),
		"cheapest":       nil,
		"most_expensive": nil,
		"price_range":    0.0,
		"savings":        0.0,
		"average":        0.0,
	}
	if summary, ok := compare.Group(products); ok {
		resp["cheapest"] = summary.Cheapest
		resp["most_expensive"] = summary.MostExpensive
		resp["price_range"] = summary.PriceRange
		resp["savings"] = summary.PriceRange
		resp["average"] = summary.Average
	}

	c.JSON(http.StatusOK, resp)
}

// groupHistory busca o histórico de cada produto do grupo em paralelo
// e consolida tudo numa série única alinhada por dia.
func (h *Handler) groupHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "90"))
	if err != nil || days < 1 {
		days = 90
	}

	if _, err := h.Groups.GroupByID(id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		log.Printf("[API] Falha ao buscar grupo %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	products, err := h.Groups.GroupProducts(id)
	if err != nil {
		log.Printf("[API] Falha ao buscar produtos do grupo %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	results := make([][]model.PricePoint, len(products))
	var wg sync.WaitGroup
	for i, p := range products {
		wg.Add(1)
		go func(i int, p model.Product) {
			defer wg.Done()
			points, err := h.History.History(p.ID, days)
			if err != nil {
				log.Printf("[API] Falha ao buscar histórico do produto %d: %v", p.ID, err)
				return
			}
			results[i] = points
		}(i, p)
	}
	wg.Wait()

	series := make(map[string][]model.PricePoint, len(products))
	for i, p := range products {
		if len(results[i]) > 0 {
			series[p.Retailer] = results[i]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"group_id": id,
		"days":     days,
		"history":  compare.MergeHistory(series),
	})
}

func (h *Handler) backfillGroup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if _, err := h.Groups.GroupByID(id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		log.Printf("[API] Falha ao buscar grupo %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start backfill"})
		return
	}

	go h.runBackfill(id)

	log.Printf("[API] Backfill do grupo %d agendado", id)

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"status":  "pending",
		"message": fmt.Sprintf("Backfill started for group %d", id),
	})
}

// runBackfill busca o histórico do PriceSpy para o grupo e insere os
// pontos em cada produto. Roda em goroutine própria; falha é logada,
// nunca propagada ao cliente.
func (h *Handler) runBackfill(groupID int64) {
	group, err := h.Groups.GroupByID(groupID)
	if err != nil {
		log.Printf("[Backfill] Grupo %d não encontrado: %v", groupID, err)
		return
	}

	products, err := h.Groups.GroupProducts(groupID)
	if err != nil || len(products) == 0 {
		log.Printf("[Backfill] Grupo %d sem produtos", groupID)
		return
	}

	query := scraper.CleanQuery(group.Name)
	log.Printf("[Backfill] Grupo %d (%q), consulta: %q", groupID, group.Name, query)

	pageURL, err := scraper.PricespyProductPage(query)
	if err != nil {
		log.Printf("[Backfill] Produto não encontrado no PriceSpy: %v", err)
		return
	}

	histPoints, err := scraper.PricespyHistory(pageURL)
	if err != nil {
		log.Printf("[Backfill] Sem histórico no PriceSpy: %v", err)
		return
	}

	points := make([]model.PricePoint, 0, len(histPoints))
	for _, hp := range histPoints {
		t, err := time.Parse("2006-01-02", hp.Date)
		if err != nil {
			continue
		}
		points = append(points, model.PricePoint{Price: hp.Price, Timestamp: t})
	}

	log.Printf("[Backfill] %d ponto(s) históricos obtidos do PriceSpy", len(points))

	total := 0
	for _, p := range products {
		inserted, err := h.History.Backfill(p.ID, points)
		if err != nil {
			log.Printf("[Backfill] Falha no produto %d: %v", p.ID, err)
			continue
		}
		total += inserted
		log.Printf("[Backfill] Produto %d (%s): %d registro(s) inserido(s)", p.ID, p.Retailer, inserted)
	}

	observability.BackfillPointsTotal.Add(float64(total))
	log.Printf("[Backfill] Concluído: %d registro(s) no total", total)
}

func (h *Handler) deleteGroup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if _, err := h.Groups.GroupByID(id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		log.Printf("[API] Falha ao buscar grupo %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}

	if err := h.Groups.DeleteGroup(id); err != nil {
		log.Printf("[API] Falha ao remover grupo %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}

	log.Printf("[API] Grupo %d removido", id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Group %d deleted", id),
	})
}
