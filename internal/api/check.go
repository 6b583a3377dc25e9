package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pricetrack/internal/checker"
)

// Varredura via API é limitada; acima disso use o binário pricecheck.
const maxCheckProducts = 100

func (h *Handler) checkPrices(c *gin.Context) {
	products, err := h.Products.ListProducts()
	if err != nil {
		log.Printf("[API] Falha ao listar produtos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check prices"})
		return
	}
	if len(products) > maxCheckProducts {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many products to check"})
		return
	}

	summary, err := checker.Run(h.Products, h.History, h.Workers)
	if err != nil {
		log.Printf("[API] Falha na verificação de preços: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check prices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"checked": summary.Checked,
		"updated": summary.Updated,
		"failed":  summary.Failed,
		"changes": summary.Changes,
	})
}
