package handlers

import (
	"net/http"

	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

// PublicHandler serves the storefront without authentication.
type PublicHandler struct {
	catalog   models.Catalog
	chat      *services.ChatService
	validator *services.ValidationHelper
	log       logrus.FieldLogger
}

func NewPublicHandler(catalog models.Catalog, chat *services.ChatService, log logrus.FieldLogger) *PublicHandler {
	return &PublicHandler{catalog: catalog, chat: chat, validator: services.NewValidationHelper(), log: log}
}

// Catalog returns services, gadgets and contact details
// @Summary Storefront catalog
// @Tags public
// @Produce json
// @Success 200 {object} models.Catalog
// @Router /public/catalog [get]
func (h *PublicHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	services.SendJSON(w, http.StatusOK, h.catalog)
}

// Chat answers a customer question
// @Summary Storefront chatbot
// @Tags public
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Message and history"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 503 {object} services.ErrorResponse
// @Router /public/chat [post]
func (h *PublicHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	reply, err := h.chat.Reply(r.Context(), req)
	if err != nil {
		fail(w, r, h.log, err, "answer")
		return
	}
	services.SendJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}
