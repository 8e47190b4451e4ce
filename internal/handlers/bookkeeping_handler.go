package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

type BookkeepingHandler struct {
	service   *services.BookkeepingService
	validator *services.ValidationHelper
	log       logrus.FieldLogger
}

func NewBookkeepingHandler(service *services.BookkeepingService, log logrus.FieldLogger) *BookkeepingHandler {
	return &BookkeepingHandler{service: service, validator: services.NewValidationHelper(), log: log}
}

func (h *BookkeepingHandler) IncomeRoutes(r chi.Router) {
	r.Get("/", h.Incomes)
	r.Post("/", h.CreateIncome)
	r.Get("/summary", h.IncomeSummary)
	r.Put("/{id}", h.UpdateIncome)
	r.Delete("/{id}", h.DeleteIncome)
}

func (h *BookkeepingHandler) ExpenseRoutes(r chi.Router) {
	r.Get("/", h.Expenses)
	r.Post("/", h.CreateExpense)
	r.Get("/totals", h.ExpenseTotals)
	r.Put("/{id}", h.UpdateExpense)
	r.Delete("/{id}", h.DeleteExpense)
}

func (h *BookkeepingHandler) RentRoutes(r chi.Router) {
	r.Get("/", h.RentPayments)
	r.Post("/", h.CreateRent)
	r.Get("/latest", h.LatestRent)
	r.Put("/{id}", h.UpdateRent)
	r.Delete("/{id}", h.DeleteRent)
}

// Incomes lists income lines
// @Summary List incomes
// @Tags bookkeeping
// @Produce json
// @Security BearerAuth
// @Param month query string false "YYYY-MM"
// @Success 200 {array} models.Income
// @Router /incomes [get]
func (h *BookkeepingHandler) Incomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.service.Incomes(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		fail(w, r, h.log, err, "load incomes")
		return
	}
	services.SendJSON(w, http.StatusOK, incomes)
}

// CreateIncome adds an income line
// @Summary Create income
// @Tags bookkeeping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.IncomeRequest true "Income"
// @Success 201 {object} models.Income
// @Router /incomes [post]
func (h *BookkeepingHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req models.IncomeRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	in, err := h.service.CreateIncome(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save income")
		return
	}
	services.SendJSON(w, http.StatusCreated, in)
}

// @Summary Update income
// @Tags bookkeeping
// @Accept json
// @Security BearerAuth
// @Param id path string true "Income ID"
// @Param request body models.IncomeRequest true "Income"
// @Success 200 {object} map[string]string
// @Router /incomes/{id} [put]
func (h *BookkeepingHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	var req models.IncomeRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.service.UpdateIncome(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		fail(w, r, h.log, err, "save income")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"message": "Income updated"})
}

// @Summary Delete income
// @Tags bookkeeping
// @Security BearerAuth
// @Param id path string true "Income ID"
// @Success 204
// @Router /incomes/{id} [delete]
func (h *BookkeepingHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteIncome(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete income")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IncomeSummary returns today's figures
// @Summary Income summary
// @Tags bookkeeping
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IncomeSummary
// @Router /incomes/summary [get]
func (h *BookkeepingHandler) IncomeSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.IncomeSummary(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load summary")
		return
	}
	services.SendJSON(w, http.StatusOK, sum)
}

// Expenses lists expenses
// @Summary List expenses
// @Tags bookkeeping
// @Produce json
// @Security BearerAuth
// @Param month query string false "YYYY-MM"
// @Success 200 {array} models.Expense
// @Router /expenses [get]
func (h *BookkeepingHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.Expenses(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		fail(w, r, h.log, err, "load expenses")
		return
	}
	services.SendJSON(w, http.StatusOK, expenses)
}

// @Summary Create expense
// @Tags bookkeeping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExpenseRequest true "Expense"
// @Success 201 {object} models.Expense
// @Router /expenses [post]
func (h *BookkeepingHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.ExpenseRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	e, err := h.service.CreateExpense(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save expense")
		return
	}
	services.SendJSON(w, http.StatusCreated, e)
}

// @Summary Update expense
// @Tags bookkeeping
// @Accept json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param request body models.ExpenseRequest true "Expense"
// @Success 200 {object} map[string]string
// @Router /expenses/{id} [put]
func (h *BookkeepingHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.ExpenseRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.service.UpdateExpense(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		fail(w, r, h.log, err, "save expense")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"message": "Expense updated"})
}

// @Summary Delete expense
// @Tags bookkeeping
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Router /expenses/{id} [delete]
func (h *BookkeepingHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Expense totals
// @Tags bookkeeping
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ExpenseTotals
// @Router /expenses/totals [get]
func (h *BookkeepingHandler) ExpenseTotals(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.ExpenseTotals(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load totals")
		return
	}
	services.SendJSON(w, http.StatusOK, t)
}

// RentPayments lists rent payments
// @Summary List rent payments
// @Tags bookkeeping
// @Produce json
// @Security BearerAuth
// @Param month query string false "YYYY-MM"
// @Success 200 {array} models.RentPayment
// @Router /rent [get]
func (h *BookkeepingHandler) RentPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.RentPayments(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		fail(w, r, h.log, err, "load rent")
		return
	}
	services.SendJSON(w, http.StatusOK, payments)
}

// LatestRent returns the last payment per rent type
// @Summary Latest rent per type
// @Tags bookkeeping
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RentPayment
// @Router /rent/latest [get]
func (h *BookkeepingHandler) LatestRent(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.LatestRent(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load rent")
		return
	}
	services.SendJSON(w, http.StatusOK, payments)
}

// @Summary Create rent payment
// @Tags bookkeeping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RentRequest true "Rent payment"
// @Success 201 {object} models.RentPayment
// @Router /rent [post]
func (h *BookkeepingHandler) CreateRent(w http.ResponseWriter, r *http.Request) {
	var req models.RentRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	p, err := h.service.CreateRent(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save rent")
		return
	}
	services.SendJSON(w, http.StatusCreated, p)
}

// @Summary Update rent payment
// @Tags bookkeeping
// @Accept json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body models.RentRequest true "Rent payment"
// @Success 200 {object} map[string]string
// @Router /rent/{id} [put]
func (h *BookkeepingHandler) UpdateRent(w http.ResponseWriter, r *http.Request) {
	var req models.RentRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.service.UpdateRent(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		fail(w, r, h.log, err, "save rent")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"message": "Rent payment updated"})
}

// @Summary Delete rent payment
// @Tags bookkeeping
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 204
// @Router /rent/{id} [delete]
func (h *BookkeepingHandler) DeleteRent(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRent(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete rent")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
