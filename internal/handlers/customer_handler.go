package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

type CustomerHandler struct {
	service   *services.CustomerService
	validator *services.ValidationHelper
	shopName  string
	log       logrus.FieldLogger
}

func NewCustomerHandler(service *services.CustomerService, shopName string, log logrus.FieldLogger) *CustomerHandler {
	return &CustomerHandler{
		service:   service,
		validator: services.NewValidationHelper(),
		shopName:  shopName,
		log:       log,
	}
}

// Routes mounts the customer endpoints.
func (h *CustomerHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/summary", h.Summary)
	r.Post("/import", h.ImportCustomers)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/ledger.csv", h.LedgerCSV)
		r.Get("/whatsapp", h.WhatsApp)
		r.Get("/whatsapp/qr", h.WhatsAppQR)
		r.Post("/transactions", h.AddEntry)
		r.Delete("/transactions", h.ClearLedger)
		r.Post("/transactions/import", h.ImportLedger)
		r.Put("/transactions/{txId}", h.EditEntry)
		r.Delete("/transactions/{txId}", h.DeleteEntry)
	})
}

// List returns customers
// @Summary List customers
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or number"
// @Success 200 {array} models.Customer
// @Failure 500 {object} services.ErrorResponse
// @Router /customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		fail(w, r, h.log, err, "load customers")
		return
	}
	services.SendJSON(w, http.StatusOK, customers)
}

// Get returns one customer with the ledger
// @Summary Get customer
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} models.CustomerDetail
// @Failure 404 {object} services.ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.log, err, "load customer")
		return
	}
	services.SendJSON(w, http.StatusOK, detail)
}

// Create adds a customer
// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CustomerRequest true "Customer"
// @Success 201 {object} models.Customer
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save customer")
		return
	}
	services.SendJSON(w, http.StatusCreated, c)
}

// Update edits the customer profile
// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body models.CustomerRequest true "Customer"
// @Success 200 {object} map[string]string
// @Failure 404 {object} services.ErrorResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		fail(w, r, h.log, err, "save customer")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"message": "Customer updated"})
}

// Delete removes a customer and the ledger
// @Summary Delete customer
// @Tags customers
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddEntry appends a ledger row
// @Summary Add customer transaction
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body models.CustomerEntryRequest true "Entry"
// @Success 201 {object} ledger.Result
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /customers/{id}/transactions [post]
func (h *CustomerHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerEntryRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.service.AddEntry(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		fail(w, r, h.log, err, "save transaction")
		return
	}
	services.SendJSON(w, http.StatusCreated, res)
}

// EditEntry changes one ledger row
// @Summary Edit customer transaction
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param txId path string true "Transaction ID"
// @Param request body models.CustomerEntryRequest true "Entry"
// @Success 200 {object} ledger.Result
// @Failure 404 {object} services.ErrorResponse
// @Router /customers/{id}/transactions/{txId} [put]
func (h *CustomerHandler) EditEntry(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerEntryRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.service.EditEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "txId"), req)
	if err != nil {
		fail(w, r, h.log, err, "save transaction")
		return
	}
	services.SendJSON(w, http.StatusOK, res)
}

// DeleteEntry removes one ledger row
// @Summary Delete customer transaction
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param txId path string true "Transaction ID"
// @Success 200 {object} ledger.Result
// @Failure 404 {object} services.ErrorResponse
// @Router /customers/{id}/transactions/{txId} [delete]
func (h *CustomerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.DeleteEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "txId"))
	if err != nil {
		fail(w, r, h.log, err, "delete transaction")
		return
	}
	services.SendJSON(w, http.StatusOK, res)
}

// ClearLedger removes every ledger row
// @Summary Clear customer ledger
// @Tags customers
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 204
// @Router /customers/{id}/transactions [delete]
func (h *CustomerHandler) ClearLedger(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearLedger(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "clear ledger")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportLedger appends pasted ledger rows
// @Summary Import customer ledger rows
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body models.LedgerImportRequest true "Pasted rows"
// @Success 200 {object} object{imported=int,balance=number}
// @Failure 400 {object} services.ErrorResponse
// @Router /customers/{id}/transactions/import [post]
func (h *CustomerHandler) ImportLedger(w http.ResponseWriter, r *http.Request) {
	var req models.LedgerImportRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	n, res, err := h.service.ImportLedger(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		fail(w, r, h.log, err, "import ledger")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]any{"imported": n, "balance": res.Balance})
}

// ImportCustomers bulk-adds customers
// @Summary Import customers
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CustomerImportRequest true "Pasted rows"
// @Success 200 {object} models.ImportReport
// @Router /customers/import [post]
func (h *CustomerHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerImportRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	report, err := h.service.ImportCustomers(r.Context(), req.Text)
	if err != nil {
		fail(w, r, h.log, err, "import customers")
		return
	}
	services.SendJSON(w, http.StatusOK, report)
}

// Summary totals receivables and payables
// @Summary Customer due summary
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CustomerSummary
// @Router /customers/summary [get]
func (h *CustomerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load summary")
		return
	}
	services.SendJSON(w, http.StatusOK, sum)
}

// LedgerCSV downloads the ledger
// @Summary Download customer ledger
// @Tags customers
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {file} file
// @Router /customers/{id}/ledger.csv [get]
func (h *CustomerHandler) LedgerCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.service.Get(r.Context(), id); err != nil {
		fail(w, r, h.log, err, "export ledger")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=ledger-"+id+".csv")
	if err := h.service.WriteLedgerCSV(r.Context(), id, w); err != nil {
		h.log.WithError(err).WithField("customer_id", id).Error("ledger export failed")
	}
}

// WhatsApp returns a due reminder link
// @Summary Customer WhatsApp link
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} object{url=string}
// @Router /customers/{id}/whatsapp [get]
func (h *CustomerHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.WhatsAppLink(r.Context(), chi.URLParam(r, "id"), h.shopName)
	if err != nil {
		fail(w, r, h.log, err, "build link")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"url": link})
}

// WhatsAppQR renders the reminder link as a QR code
// @Summary Customer WhatsApp QR
// @Tags customers
// @Produce image/png
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {file} file
// @Router /customers/{id}/whatsapp/qr [get]
func (h *CustomerHandler) WhatsAppQR(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.WhatsAppLink(r.Context(), chi.URLParam(r, "id"), h.shopName)
	if err != nil {
		fail(w, r, h.log, err, "build link")
		return
	}
	png, err := services.QRPNG(link)
	if err != nil {
		fail(w, r, h.log, err, "render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
