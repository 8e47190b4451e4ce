package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, parts)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

var testShop = config.ShopConfig{
	Name:    "Sinthiya Telecom",
	Owner:   "Enamul",
	Contact: "01307085310",
	Address: "Raigonj, Sirajganj",
}

func TestChatParts(t *testing.T) {
	parts := chatParts("brief", models.ChatRequest{
		Message: " price of earbuds? ",
		History: []models.ChatTurn{
			{Role: "user", Text: "hello"},
			{Role: "model", Text: "Hi! How can I help?"},
		},
	})
	assert.Equal(t, []genai.Part{
		genai.Text("brief"),
		genai.Text("Customer: hello"),
		genai.Text("Assistant: Hi! How can I help?"),
		genai.Text("Customer: price of earbuds?"),
	}, parts)
}

func TestChatService_Reply(t *testing.T) {
	model := &MockContentGenerator{}
	model.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse(genai.Text("Earbuds cost "), genai.Text("৳1850.")), nil).Once()

	service := NewChatService(model, "brief", logging.Discard())
	reply, err := service.Reply(context.Background(), models.ChatRequest{Message: "earbuds?"})
	require.NoError(t, err)
	assert.Equal(t, "Earbuds cost ৳1850.", reply)
	model.AssertExpectations(t)
}

func TestChatService_Unavailable(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		service := NewChatService(nil, "brief", logging.Discard())
		assert.False(t, service.Available())

		_, err := service.Reply(context.Background(), models.ChatRequest{Message: "hi"})
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 503, StatusFor(err))
	})

	t.Run("upstream failure", func(t *testing.T) {
		model := &MockContentGenerator{}
		model.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

		_, err := NewChatService(model, "brief", logging.Discard()).Reply(context.Background(), models.ChatRequest{Message: "hi"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty answer", func(t *testing.T) {
		model := &MockContentGenerator{}
		model.On("GenerateContent", mock.Anything, mock.Anything).Return(&genai.GenerateContentResponse{}, nil)

		_, err := NewChatService(model, "brief", logging.Discard()).Reply(context.Background(), models.ChatRequest{Message: "hi"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestCatalogAndSystemPrompt(t *testing.T) {
	catalog := NewCatalog(testShop)
	assert.Equal(t, "https://wa.me/8801307085310", catalog.WhatsApp)
	assert.NotEmpty(t, catalog.Gadgets)

	prompt := SystemPrompt(catalog)
	assert.Contains(t, prompt, "You are the Sinthiya Telecom AI Assistant.")
	assert.Contains(t, prompt, "01892251000 (Bkash & Rocket)")
	assert.Contains(t, prompt, "Wireless Earbuds (৳1850)")
	assert.Contains(t, prompt, "Use Bengali")
}
