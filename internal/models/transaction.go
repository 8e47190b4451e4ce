package models

import (
	"strings"
	"time"
)

const (
	StockBuy  = "BUY"
	StockSell = "SELL"

	DefaultMinStock = 5
)

// Carriers and ItemTypes are the SIM inventory dimensions.
var (
	Carriers  = []string{"GP", "Robi", "Airtel", "BL", "None"}
	ItemTypes = []string{"Sim Normal", "Replacement Kit", "Offer Sim", "Minute Card 30 Tk", "Others"}
)

// ProductID derives the inventory key for a carrier and item type.
func ProductID(carrier, itemType string) string {
	return strings.Join(strings.Fields(carrier+"_"+itemType), "_")
}

// Product is one inventory line.
type Product struct {
	ID         string  `json:"id" db:"id"`
	SLNumber   int     `json:"slNumber" db:"sl_number"`
	Carrier    string  `json:"carrier" db:"carrier"`
	ItemType   string  `json:"itemType" db:"item_type"`
	Name       string  `json:"name" db:"name"`
	Stock      int     `json:"stock" db:"stock"`
	BuyPrice   float64 `json:"buyPrice" db:"buy_price"`
	TotalValue float64 `json:"totalValue" db:"total_value"`
	MinStock   int     `json:"minStock" db:"min_stock"`
	Remarks    string  `json:"remarks" db:"remarks"`
}

// LowStock reports whether the product is at or below its reorder level.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// StockTransaction is a BUY or SELL posted against a product.
type StockTransaction struct {
	ID           string    `json:"id" db:"id"`
	Date         string    `json:"date" db:"date"`
	Type         string    `json:"type" db:"type"`
	Carrier      string    `json:"carrier" db:"carrier"`
	ItemType     string    `json:"itemType" db:"item_type"`
	Quantity     int       `json:"quantity" db:"quantity"`
	PricePerUnit float64   `json:"pricePerUnit" db:"price_per_unit"`
	TotalPrice   float64   `json:"totalPrice" db:"total_price"`
	Profit       float64   `json:"profit" db:"profit"`
	Remarks      string    `json:"remarks" db:"remarks"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type StockRequest struct {
	Date     string  `json:"date" validate:"required" example:"2025-11-08"`
	Type     string  `json:"type" validate:"required,oneof=BUY SELL"`
	Carrier  string  `json:"carrier" validate:"required,oneof=GP Robi Airtel BL None"`
	ItemType string  `json:"itemType" validate:"required,max=50" example:"Sim Normal"`
	Quantity int     `json:"quantity" validate:"required,gt=0" example:"10"`
	Price    float64 `json:"price" validate:"gte=0" example:"250"`
	Remarks  string  `json:"remarks" validate:"max=200"`
}

// StockHistoryUpdate edits a posted transaction; type and product are fixed.
type StockHistoryUpdate struct {
	Date         string  `json:"date" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	PricePerUnit float64 `json:"pricePerUnit" validate:"gte=0"`
	Remarks      string  `json:"remarks" validate:"max=200"`
}

type ProductUpdate struct {
	SLNumber int     `json:"slNumber" validate:"gte=0"`
	BuyPrice float64 `json:"buyPrice" validate:"gte=0"`
	MinStock int     `json:"minStock" validate:"gte=0"`
	Remarks  string  `json:"remarks" validate:"max=200"`
}
