package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

type LoanHandler struct {
	service   *services.LoanService
	validator *services.ValidationHelper
	log       logrus.FieldLogger
}

func NewLoanHandler(service *services.LoanService, log logrus.FieldLogger) *LoanHandler {
	return &LoanHandler{service: service, validator: services.NewValidationHelper(), log: log}
}

func (h *LoanHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/totals", h.Totals)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/ledger.csv", h.LedgerCSV)
		r.Post("/transactions", h.AddEntry)
		r.Put("/transactions/{txId}", h.EditEntry)
		r.Delete("/transactions/{txId}", h.DeleteEntry)
	})
}

// List returns loans newest first
// @Summary List loans
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param search query string false "NGO name or loan ID"
// @Success 200 {array} models.Loan
// @Router /loans [get]
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		fail(w, r, h.log, err, "load loans")
		return
	}
	services.SendJSON(w, http.StatusOK, loans)
}

// Get returns a loan with installments
// @Summary Get loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} models.LoanDetail
// @Failure 404 {object} services.ErrorResponse
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.log, err, "load loan")
		return
	}
	services.SendJSON(w, http.StatusOK, detail)
}

// Create records a loan
// @Summary Create loan
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.LoanRequest true "Loan"
// @Success 201 {object} models.Loan
// @Failure 400 {object} services.ErrorResponse
// @Router /loans [post]
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.LoanRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	loan, err := h.service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save loan")
		return
	}
	services.SendJSON(w, http.StatusCreated, loan)
}

// Update changes the loan terms
// @Summary Update loan
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param request body models.LoanRequest true "Loan"
// @Success 200 {object} ledger.Result
// @Failure 404 {object} services.ErrorResponse
// @Router /loans/{id} [put]
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.LoanRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		fail(w, r, h.log, err, "save loan")
		return
	}
	services.SendJSON(w, http.StatusOK, res)
}

// Delete removes a loan
// @Summary Delete loan
// @Tags loans
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 204
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete loan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddEntry records an installment
// @Summary Add installment
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param request body models.LoanEntryRequest true "Installment"
// @Success 201 {object} ledger.Result
// @Router /loans/{id}/transactions [post]
func (h *LoanHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req models.LoanEntryRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.service.AddEntry(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		fail(w, r, h.log, err, "save installment")
		return
	}
	services.SendJSON(w, http.StatusCreated, res)
}

// EditEntry changes an installment
// @Summary Edit installment
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param txId path string true "Installment ID"
// @Param request body models.LoanEntryRequest true "Installment"
// @Success 200 {object} ledger.Result
// @Router /loans/{id}/transactions/{txId} [put]
func (h *LoanHandler) EditEntry(w http.ResponseWriter, r *http.Request) {
	var req models.LoanEntryRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.service.EditEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "txId"), req)
	if err != nil {
		fail(w, r, h.log, err, "save installment")
		return
	}
	services.SendJSON(w, http.StatusOK, res)
}

// DeleteEntry removes an installment
// @Summary Delete installment
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param txId path string true "Installment ID"
// @Success 200 {object} ledger.Result
// @Router /loans/{id}/transactions/{txId} [delete]
func (h *LoanHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.DeleteEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "txId"))
	if err != nil {
		fail(w, r, h.log, err, "delete installment")
		return
	}
	services.SendJSON(w, http.StatusOK, res)
}

// Totals sums dues and savings
// @Summary Loan totals
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LoanTotals
// @Router /loans/totals [get]
func (h *LoanHandler) Totals(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Totals(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load loan totals")
		return
	}
	services.SendJSON(w, http.StatusOK, t)
}

// LedgerCSV downloads the installments
// @Summary Download loan ledger
// @Tags loans
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {file} file
// @Router /loans/{id}/ledger.csv [get]
func (h *LoanHandler) LedgerCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.service.Get(r.Context(), id); err != nil {
		fail(w, r, h.log, err, "export ledger")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=loan-"+id+".csv")
	if err := h.service.WriteLedgerCSV(r.Context(), id, w); err != nil {
		h.log.WithError(err).WithField("loan_id", id).Error("ledger export failed")
	}
}
