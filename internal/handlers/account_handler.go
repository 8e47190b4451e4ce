package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	service   *services.AccountService
	validator *services.ValidationHelper
	log       logrus.FieldLogger
}

func NewAccountHandler(service *services.AccountService, log logrus.FieldLogger) *AccountHandler {
	return &AccountHandler{service: service, validator: services.NewValidationHelper(), log: log}
}

func (h *AccountHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/totals", h.Totals)
	r.Get("/history", h.History)
	r.Post("/closing/{provider}", h.Closing)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns wallet accounts
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param provider query string false "bkash, nagad, rocket, flexiload or hand_cash"
// @Success 200 {array} models.Account
// @Router /accounts [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context(), r.URL.Query().Get("provider"))
	if err != nil {
		fail(w, r, h.log, err, "load accounts")
		return
	}
	services.SendJSON(w, http.StatusOK, accounts)
}

// Create adds a wallet account
// @Summary Create account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AccountRequest true "Account"
// @Success 201 {object} models.Account
// @Failure 400 {object} services.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.AccountRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	a, err := h.service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save account")
		return
	}
	services.SendJSON(w, http.StatusCreated, a)
}

// Update edits a wallet account
// @Summary Update account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body models.AccountRequest true "Account"
// @Success 200 {object} map[string]string
// @Failure 404 {object} services.ErrorResponse
// @Router /accounts/{id} [put]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.AccountRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		fail(w, r, h.log, err, "save account")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"message": "Account updated"})
}

// Delete removes a wallet account
// @Summary Delete account
// @Tags accounts
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 204
// @Router /accounts/{id} [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Totals sums balances per provider
// @Summary Account totals
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AccountTotals
// @Router /accounts/totals [get]
func (h *AccountHandler) Totals(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Totals(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load totals")
		return
	}
	services.SendJSON(w, http.StatusOK, t)
}

// Closing saves the end-of-day balances of one provider
// @Summary Daily closing
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider"
// @Param request body models.ClosingRequest true "Balances"
// @Success 200 {object} models.ProviderClosing
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /accounts/closing/{provider} [post]
func (h *AccountHandler) Closing(w http.ResponseWriter, r *http.Request) {
	var req models.ClosingRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	snapshot, err := h.service.Closing(r.Context(), chi.URLParam(r, "provider"), req)
	if err != nil {
		fail(w, r, h.log, err, "save closing")
		return
	}
	services.SendJSON(w, http.StatusOK, snapshot)
}

// History lists recent closings
// @Summary Balance history
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BalanceHistory
// @Router /accounts/history [get]
func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load history")
		return
	}
	services.SendJSON(w, http.StatusOK, history)
}
