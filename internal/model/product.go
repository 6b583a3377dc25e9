package model

import "time"

// RawListing é o resultado bruto de uma busca em um varejista.
// Existe apenas durante uma operação de busca e nunca é mutado.
type RawListing struct {
	Retailer string  `json:"retailer"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand,omitempty"`
	Model    string  `json:"model,omitempty"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
}

// ProductGroup representa o mesmo produto físico vendido por varejistas diferentes.
type ProductGroup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model,omitempty"` // vazio quando o varejista não expõe código de modelo
	Brand     string    `json:"brand,omitempty"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Product é a oferta rastreada de um varejista dentro de um grupo.
type Product struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"group_id"`
	Name         string    `json:"name"`
	Model        string    `json:"model,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	Retailer     string    `json:"retailer"`
	CurrentPrice float64   `json:"current_price"`
	LastChecked  time.Time `json:"last_checked"`
}

// PricePoint é uma observação de preço. Somente inserida, nunca atualizada.
type PricePoint struct {
	ProductID int64     `json:"product_id,omitempty"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
