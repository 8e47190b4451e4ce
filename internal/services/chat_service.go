package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
)

// ContentGenerator is the part of *genai.GenerativeModel the chatbot uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ChatService answers storefront questions through Gemini. A nil model
// means the chatbot is not configured.
type ChatService struct {
	model  ContentGenerator
	prompt string
	log    logrus.FieldLogger
}

func NewChatService(model ContentGenerator, systemPrompt string, log logrus.FieldLogger) *ChatService {
	return &ChatService{model: model, prompt: systemPrompt, log: log.WithField("module", "chat")}
}

// Available reports whether a model is configured.
func (s *ChatService) Available() bool {
	return s != nil && s.model != nil
}

// chatParts lays out the system prompt, the earlier turns and the new
// message as text parts.
func chatParts(prompt string, req models.ChatRequest) []genai.Part {
	parts := make([]genai.Part, 0, len(req.History)+2)
	parts = append(parts, genai.Text(prompt))
	for _, turn := range req.History {
		speaker := "Customer"
		if turn.Role == "model" {
			speaker = "Assistant"
		}
		parts = append(parts, genai.Text(speaker+": "+turn.Text))
	}
	parts = append(parts, genai.Text("Customer: "+strings.TrimSpace(req.Message)))
	return parts
}

// Reply returns the assistant's answer to the latest message.
func (s *ChatService) Reply(ctx context.Context, req models.ChatRequest) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("chatbot: %w", ErrUnavailable)
	}

	resp, err := s.model.GenerateContent(ctx, chatParts(s.prompt, req)...)
	if err != nil {
		s.log.WithError(err).Warn("gemini request failed")
		return "", fmt.Errorf("chatbot: %w", ErrUnavailable)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("chatbot returned no answer: %w", ErrUnavailable)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("chatbot returned no text: %w", ErrUnavailable)
	}
	return b.String(), nil
}
