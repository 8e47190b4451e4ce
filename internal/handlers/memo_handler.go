package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/amountwords"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

type MemoHandler struct {
	service   *services.MemoService
	validator *services.ValidationHelper
	log       logrus.FieldLogger
}

func NewMemoHandler(service *services.MemoService, log logrus.FieldLogger) *MemoHandler {
	return &MemoHandler{service: service, validator: services.NewValidationHelper(), log: log}
}

func (h *MemoHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/words", h.Words)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/qr", h.QR)
}

// List returns cash memos
// @Summary List memos
// @Tags memos
// @Produce json
// @Security BearerAuth
// @Param search query string false "Customer name or phone"
// @Success 200 {array} models.Memo
// @Router /memos [get]
func (h *MemoHandler) List(w http.ResponseWriter, r *http.Request) {
	memos, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		fail(w, r, h.log, err, "load memos")
		return
	}
	services.SendJSON(w, http.StatusOK, memos)
}

// @Summary Get memo
// @Tags memos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Memo ID"
// @Success 200 {object} models.Memo
// @Failure 404 {object} services.ErrorResponse
// @Router /memos/{id} [get]
func (h *MemoHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.log, err, "load memo")
		return
	}
	services.SendJSON(w, http.StatusOK, m)
}

// Create stores a cash memo
// @Summary Create memo
// @Description Subtotal and amount in words are computed by the server
// @Tags memos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.MemoRequest true "Memo"
// @Success 201 {object} models.Memo
// @Failure 400 {object} services.ErrorResponse
// @Router /memos [post]
func (h *MemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MemoRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	m, err := h.service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "save memo")
		return
	}
	services.SendJSON(w, http.StatusCreated, m)
}

// @Summary Update memo
// @Tags memos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Memo ID"
// @Param request body models.MemoRequest true "Memo"
// @Success 200 {object} models.Memo
// @Router /memos/{id} [put]
func (h *MemoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.MemoRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	m, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		fail(w, r, h.log, err, "save memo")
		return
	}
	services.SendJSON(w, http.StatusOK, m)
}

// @Summary Delete memo
// @Tags memos
// @Security BearerAuth
// @Param id path string true "Memo ID"
// @Success 204
// @Router /memos/{id} [delete]
func (h *MemoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, h.log, err, "delete memo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QR renders the memo verification QR code
// @Summary Memo QR code
// @Tags memos
// @Produce image/png
// @Security BearerAuth
// @Param id path string true "Memo ID"
// @Success 200 {file} file
// @Router /memos/{id}/qr [get]
func (h *MemoHandler) QR(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.QR(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.log, err, "render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Words spells an amount for invoices
// @Summary Amount in words
// @Tags memos
// @Produce json
// @Security BearerAuth
// @Param amount query int true "Whole taka"
// @Param lang query string false "en or bn"
// @Success 200 {object} object{words=string}
// @Failure 400 {object} services.ErrorResponse
// @Router /memos/words [get]
func (h *MemoHandler) Words(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil || amount < 0 {
		services.SendErrorResponse(w, "amount must be a non-negative whole number", http.StatusBadRequest, nil)
		return
	}
	words := amountwords.Taka(amount, r.URL.Query().Get("lang"))
	services.SendJSON(w, http.StatusOK, map[string]string{"words": words})
}
