package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

type StockHandler struct {
	service   *services.StockService
	validator *services.ValidationHelper
	log       logrus.FieldLogger
}

func NewStockHandler(service *services.StockService, log logrus.FieldLogger) *StockHandler {
	return &StockHandler{service: service, validator: services.NewValidationHelper(), log: log}
}

func (h *StockHandler) Routes(r chi.Router) {
	r.Get("/products", h.Products)
	r.Get("/products/low", h.LowStock)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)
	r.Post("/transactions", h.Record)
	r.Get("/history", h.History)
	r.Put("/history/{id}", h.EditHistory)
	r.Delete("/history/{id}", h.DeleteHistory)
}

// Products lists inventory
// @Summary List products
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Product
// @Router /stock/products [get]
func (h *StockHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load products")
		return
	}
	services.SendJSON(w, http.StatusOK, products)
}

// LowStock lists products at or below their reorder level
// @Summary Low stock
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Product
// @Router /stock/products/low [get]
func (h *StockHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LowStock(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load products")
		return
	}
	services.SendJSON(w, http.StatusOK, products)
}

// UpdateProduct edits product master data
// @Summary Update product
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body models.ProductUpdate true "Product"
// @Success 200 {object} map[string]string
// @Router /stock/products/{id} [put]
func (h *StockHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductUpdate
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		fail(w, r, h.log, err, "save product")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}

// DeleteProduct removes a product
// @Summary Delete product
// @Tags stock
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Router /stock/products/{id} [delete]
func (h *StockHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Record posts a BUY or SELL
// @Summary Post stock transaction
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.StockRequest true "Transaction"
// @Success 201 {object} models.StockTransaction
// @Failure 409 {object} services.ErrorResponse "Insufficient stock"
// @Router /stock/transactions [post]
func (h *StockHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req models.StockRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	t, err := h.service.Record(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save stock")
		return
	}
	services.SendJSON(w, http.StatusCreated, t)
}

// History lists posted transactions
// @Summary Stock history
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param type query string false "BUY or SELL"
// @Success 200 {array} models.StockTransaction
// @Router /stock/history [get]
func (h *StockHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		fail(w, r, h.log, err, "load history")
		return
	}
	services.SendJSON(w, http.StatusOK, history)
}

// EditHistory re-applies a posted transaction
// @Summary Edit stock history
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "History ID"
// @Param request body models.StockHistoryUpdate true "Changes"
// @Success 200 {object} models.StockTransaction
// @Failure 409 {object} services.ErrorResponse
// @Router /stock/history/{id} [put]
func (h *StockHandler) EditHistory(w http.ResponseWriter, r *http.Request) {
	var req models.StockHistoryUpdate
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	t, err := h.service.EditHistory(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		fail(w, r, h.log, err, "save stock")
		return
	}
	services.SendJSON(w, http.StatusOK, t)
}

// DeleteHistory reverts and removes a posted transaction
// @Summary Delete stock history
// @Tags stock
// @Security BearerAuth
// @Param id path string true "History ID"
// @Success 204
// @Failure 409 {object} services.ErrorResponse
// @Router /stock/history/{id} [delete]
func (h *StockHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteHistory(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete stock")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
